package service

import (
	"fmt"
	"net/http"

	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

// Workflow error codes. All of them are request-rejection errors surfaced to
// the caller; none are retried automatically.
const (
	CodeTicketClosed            = "TICKET_CLOSED"
	CodeTicketActionAlreadySet  = "TICKET_ACTION_ALREADY_SET"
	CodeNoConfirmedAssets       = "NO_CONFIRMED_ASSETS"
	CodeConfirmedAssetsChanged  = "CONFIRMED_ASSETS_CHANGED"
	CodeNoConfirmedAccount      = "NO_CONFIRMED_ACCOUNT"
	CodeConfirmedAccountChanged = "CONFIRMED_ACCOUNT_CHANGED"
)

func errTicketClosed() error {
	return apperrors.NewDomainError(CodeTicketClosed, "ticket closed", http.StatusConflict, nil)
}

func errTicketActionAlreadySet(action string) error {
	return apperrors.NewDomainError(CodeTicketActionAlreadySet,
		fmt.Sprintf("ticket has %s", action), http.StatusConflict, nil)
}

func errNoConfirmedAssets() error {
	return apperrors.NewDomainError(CodeNoConfirmedAssets, "confirm assets first", http.StatusBadRequest, nil)
}

func errConfirmedAssetsChanged() error {
	return apperrors.NewDomainError(CodeConfirmedAssetsChanged, "confirmed assets changed", http.StatusConflict, nil)
}

func errNoConfirmedAccount() error {
	return apperrors.NewDomainError(CodeNoConfirmedAccount, "confirm system account first", http.StatusBadRequest, nil)
}

func errConfirmedAccountChanged() error {
	return apperrors.NewDomainError(CodeConfirmedAccountChanged, "confirmed system account changed", http.StatusConflict, nil)
}
