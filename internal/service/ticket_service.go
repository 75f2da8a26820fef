package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/access-request-service/internal/domain"
	"github.com/spec-kit/access-request-service/internal/events"
	"github.com/spec-kit/access-request-service/internal/repository"
	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

// TicketService owns the access-request workflow: submission, the action
// state machine, and the approval-to-grant transaction.
type TicketService struct {
	tickets    repository.TicketRepository
	assets     repository.AssetRepository
	accounts   repository.AccountRepository
	perms      repository.PermissionRepository
	users      repository.UserRepository
	orgs       repository.OrganizationRepository
	txm        repository.TxManager
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AssetRepo      repository.AssetRepository
	AccountRepo    repository.AccountRepository
	PermissionRepo repository.PermissionRepository
	UserRepo       repository.UserRepository
	OrgRepo        repository.OrganizationRepository
	TxManager      repository.TxManager
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		assets:     deps.AssetRepo,
		accounts:   deps.AccountRepo,
		perms:      deps.PermissionRepo,
		users:      deps.UserRepo,
		orgs:       deps.OrgRepo,
		txm:        deps.TxManager,
		dispatcher: deps.Dispatcher,
	}
}

// TicketSubmitInput describes a new access request.
type TicketSubmitInput struct {
	Title       string
	OrgID       string
	AssigneeIDs []string
	IPs         []string
	Hostname    string
	SystemUser  string
}

// TicketListFilter describes listing parameters for a caller.
type TicketListFilter struct {
	OrgID      *string
	Statuses   []domain.TicketStatus
	Actions    []domain.TicketAction
	SearchTerm *string
	// Assigned selects tickets where the caller is an assignee instead of
	// tickets the caller requested. Ignored for global admins, who see all.
	Assigned bool
	Limit    int
	Offset   int
}

// ConfirmSelectionInput pins the reviewed asset/account selection into meta.
type ConfirmSelectionInput struct {
	ConfirmedAssets     []string
	ConfirmedSystemUser string
	DateStart           *time.Time
	DateExpired         *time.Time
}

// SubmitTicket creates an OPEN ticket with no action recorded.
func (s *TicketService) SubmitTicket(ctx context.Context, requester *domain.User, input TicketSubmitInput) (*domain.Ticket, error) {
	orgID := input.OrgID
	if orgID == "" {
		orgID = domain.DefaultOrgID
	}
	if orgID != domain.DefaultOrgID {
		org, err := s.orgs.GetByID(ctx, orgID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("organization", map[string]any{"org_id": orgID})
			}
			return nil, apperrors.MapError(err)
		}
		if !org.IsActive {
			return nil, apperrors.NewConflict("ORG_INACTIVE", "organization inactive", map[string]any{"org_id": orgID})
		}
	}

	if len(input.AssigneeIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one assignee required", nil)
	}
	assignees, err := s.users.GetByIDs(ctx, input.AssigneeIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(assignees) != len(input.AssigneeIDs) {
		return nil, apperrors.NewValidationError("unknown assignee", nil)
	}

	names := make([]string, 0, len(assignees))
	for _, a := range assignees {
		names = append(names, a.Name)
	}

	ticket := &domain.Ticket{
		SerialKey:        generateSerialKey(),
		Title:            strings.TrimSpace(input.Title),
		OrgID:            orgID,
		RequesterID:      requester.ID,
		UserDisplay:      requester.Name,
		AssigneeIDs:      input.AssigneeIDs,
		AssigneesDisplay: strings.Join(names, ", "),
		Status:           domain.TicketStatusOpen,
		Action:           domain.TicketActionNone,
		Meta: domain.TicketMeta{
			IPs:        input.IPs,
			Hostname:   input.Hostname,
			SystemUser: input.SystemUser,
		},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: ticket.ID,
		ActorID:  requester.ID,
		Payload: events.TicketSubmittedPayload{
			OrgID:       ticket.OrgID,
			Title:       ticket.Title,
			AssigneeIDs: ticket.AssigneeIDs,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket the caller is party to.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canView(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListTickets returns tickets visible to the caller.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		OrgID:      filter.OrgID,
		Statuses:   filter.Statuses,
		Actions:    filter.Actions,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if caller.Role != domain.UserRoleAdmin {
		if filter.Assigned {
			repoFilter.AssigneeID = &caller.ID
		} else {
			repoFilter.RequesterID = &caller.ID
		}
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ConfirmSelection records the reviewed asset and account choice in ticket
// meta ahead of approval.
func (s *TicketService) ConfirmSelection(ctx context.Context, actor *domain.User, ticketID string, input ConfirmSelectionInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAssignee(actor, ticket); err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, errTicketClosed()
	}

	meta := ticket.Meta
	meta.ConfirmedAssets = input.ConfirmedAssets
	meta.ConfirmedSystemUser = input.ConfirmedSystemUser
	meta.DateStart = input.DateStart
	meta.DateExpired = input.DateExpired
	if err := s.tickets.UpdateMeta(ctx, ticket.ID, meta); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errTicketClosed()
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Meta = meta
	return ticket, nil
}

// CheckCanSetAction enforces transition legality. The closed check takes
// priority; repeating the currently recorded action is rejected, switching
// action on an open ticket is not.
func (s *TicketService) CheckCanSetAction(ticket *domain.Ticket, action domain.TicketAction) error {
	if ticket.Status == domain.TicketStatusClosed {
		return errTicketClosed()
	}
	if ticket.Action == action {
		return errTicketActionAlreadySet(string(action))
	}
	return nil
}

// BuildActionComment renders the audit comment embedded in both approve and
// reject transitions.
func (s *TicketService) BuildActionComment(ticket *domain.Ticket) string {
	meta := ticket.Meta
	return fmt.Sprintf(
		"IP group: %s\nHostname: %s\nSystem user: %s\nConfirmed assets: %s\nConfirmed system user: %s",
		strings.Join(meta.IPs, ", "),
		meta.Hostname,
		meta.SystemUser,
		strings.Join(meta.ConfirmedAssets, ", "),
		meta.ConfirmedSystemUser,
	)
}

// Approve validates the confirmed selection against the live catalog and, in
// one transaction, records the APPROVED action and materializes the grant.
func (s *TicketService) Approve(ctx context.Context, actor *domain.User, ticketID string) (*domain.AssetPermission, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAssignee(actor, ticket); err != nil {
		return nil, err
	}
	if err := s.CheckCanSetAction(ticket, domain.TicketActionApproved); err != nil {
		return nil, err
	}

	confirmedAssets := ticket.Meta.ConfirmedAssets
	if len(confirmedAssets) == 0 {
		return nil, errNoConfirmedAssets()
	}
	liveAssets, err := s.assets.ListLiveByIDs(ctx, confirmedAssets)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(liveAssets) == 0 {
		return nil, errNoConfirmedAssets()
	}
	if len(liveAssets) != len(confirmedAssets) {
		return nil, errConfirmedAssetsChanged()
	}

	accountID := ticket.Meta.ConfirmedSystemUser
	if accountID == "" {
		return nil, errNoConfirmedAccount()
	}
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if account == nil {
		return nil, errConfirmedAccountChanged()
	}

	assetIDs := make([]string, 0, len(liveAssets))
	for _, a := range liveAssets {
		assetIDs = append(assetIDs, a.ID)
	}

	comment := s.BuildActionComment(ticket)
	var perm *domain.AssetPermission
	err = s.txm.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.tickets.PerformActionTx(ctx, tx, ticket.ID, domain.TicketActionApproved, actor.ID, comment); err != nil {
			if errors.Is(err, repository.ErrStaleTicket) {
				return errTicketActionAlreadySet(string(domain.TicketActionApproved))
			}
			return err
		}
		created, err := s.perms.CreateTx(ctx, tx, repository.PermissionCreate{
			TicketID:    ticket.ID,
			Name:        fmt.Sprintf("From request ticket: %s %s", ticket.UserDisplay, ticket.SerialKey),
			Comment:     fmt.Sprintf("%s request assets, approved by %s", ticket.UserDisplay, ticket.AssigneesDisplay),
			CreatedBy:   actor.Name,
			DateStart:   ticket.Meta.DateStart,
			DateExpired: ticket.Meta.DateExpired,
			AssetIDs:    assetIDs,
			AccountID:   account.ID,
			UserID:      ticket.RequesterID,
		})
		if err != nil {
			return err
		}
		perm = created
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketApproved,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketApprovedPayload{
			PermissionID: perm.ID,
			AssetIDs:     perm.AssetIDs,
			AccountID:    account.ID,
			GranteeID:    ticket.RequesterID,
			DateExpired:  ticket.Meta.DateExpired,
		},
	})
	return perm, nil
}

// Reject records the REJECTED action. No grant side effects.
func (s *TicketService) Reject(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAssignee(actor, ticket); err != nil {
		return nil, err
	}
	if err := s.CheckCanSetAction(ticket, domain.TicketActionRejected); err != nil {
		return nil, err
	}

	comment := s.BuildActionComment(ticket)
	if err := s.tickets.PerformAction(ctx, ticket.ID, domain.TicketActionRejected, actor.ID, comment); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return nil, errTicketActionAlreadySet(string(domain.TicketActionRejected))
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Action = domain.TicketActionRejected
	ticket.ActionByID = &actor.ID
	ticket.Comment = comment

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRejected,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketRejectedPayload{Comment: comment},
	})
	return ticket, nil
}

// CloseTicket moves a ticket to CLOSED. Closing is outside the action state
// machine; any party to the ticket may do it.
func (s *TicketService) CloseTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, errTicketClosed()
	}
	if err := s.tickets.Close(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errTicketClosed()
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Status = domain.TicketStatusClosed
	now := time.Now()
	ticket.ClosedAt = &now

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketClosedPayload{PriorAction: ticket.Action},
	})
	return ticket, nil
}

// GetGrant returns the permission materialized for an approved ticket.
func (s *TicketService) GetGrant(ctx context.Context, caller *domain.User, ticketID string) (*domain.AssetPermission, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.canView(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	perm, err := s.perms.GetByTicketID(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("grant", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return perm, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) ensureAssignee(actor *domain.User, ticket *domain.Ticket) error {
	if actor.Role == domain.UserRoleAdmin {
		return nil
	}
	if !ticket.IsAssignee(actor.ID) {
		return apperrors.NewForbidden("only ticket assignees may review")
	}
	return nil
}

func (s *TicketService) canView(user *domain.User, ticket *domain.Ticket) bool {
	if user.Role == domain.UserRoleAdmin {
		return true
	}
	return ticket.RequesterID == user.ID || ticket.IsAssignee(user.ID)
}

func generateSerialKey() string {
	return "REQ-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
