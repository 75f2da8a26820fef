package dto

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

var validate = validator.New()

// Validate runs struct tag validation and maps failures to a validation error
// keyed by field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed %s validation", fe.Tag())
	}
	return apperrors.NewValidationError("invalid payload", details)
}
