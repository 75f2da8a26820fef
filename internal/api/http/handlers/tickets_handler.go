package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-request-service/internal/api/dto"
	"github.com/spec-kit/access-request-service/internal/auth"
	"github.com/spec-kit/access-request-service/internal/domain"
	"github.com/spec-kit/access-request-service/internal/service"
	apperrors "github.com/spec-kit/access-request-service/pkg/util/errorutil"
)

// TicketsHandler manages access-request ticket endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	assignees *service.AssigneeService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, assignees *service.AssigneeService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, assignees: assignees}
}

// SubmitTicket POST /tickets.
func (h *TicketsHandler) SubmitTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.tickets.SubmitTicket(c.Context(), principal.User, service.TicketSubmitInput{
		Title:       req.Title,
		OrgID:       req.OrgID,
		AssigneeIDs: req.AssigneeIDs,
		IPs:         req.IPs,
		Hostname:    req.Hostname,
		SystemUser:  req.SystemUser,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.ListTickets(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetTicket(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ConfirmSelection PUT /tickets/:id/confirm.
func (h *TicketsHandler) ConfirmSelection(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ConfirmSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	ticket, err := h.tickets.ConfirmSelection(c.Context(), principal.User, c.Params("id"), service.ConfirmSelectionInput{
		ConfirmedAssets:     req.ConfirmedAssets,
		ConfirmedSystemUser: req.ConfirmedSystemUser,
		DateStart:           req.DateStart,
		DateExpired:         req.DateExpired,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Approve POST /tickets/:id/approve.
func (h *TicketsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	perm, err := h.tickets.Approve(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": grantResponse(perm)})
}

// Reject POST /tickets/:id/reject.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.Reject(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.CloseTicket(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetGrant GET /tickets/:id/grant.
func (h *TicketsHandler) GetGrant(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	perm, err := h.tickets.GetGrant(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": grantResponse(perm)})
}

// ListAssignees GET /tickets/assignees.
func (h *TicketsHandler) ListAssignees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	candidates, err := h.assignees.ResolveAssignees(c.Context(), principal.User, c.Query("org_id"))
	if err != nil {
		return err
	}
	items := make([]dto.AssigneeResponse, 0, len(candidates))
	for _, cand := range candidates {
		items = append(items, dto.AssigneeResponse{
			ID:    cand.ID,
			Name:  cand.Name,
			Email: cand.Email,
			Role:  cand.Role,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if orgID := c.Query("org_id"); orgID != "" {
		filter.OrgID = &orgID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if actionStr := c.Query("action"); actionStr != "" {
		for _, part := range strings.Split(actionStr, ",") {
			filter.Actions = append(filter.Actions, domain.TicketAction(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.Assigned = c.Query("view") == "assigned"
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:               ticket.ID,
		SerialKey:        ticket.SerialKey,
		Title:            ticket.Title,
		OrgID:            ticket.OrgID,
		RequesterID:      ticket.RequesterID,
		UserDisplay:      ticket.UserDisplay,
		AssigneeIDs:      ticket.AssigneeIDs,
		AssigneesDisplay: ticket.AssigneesDisplay,
		Status:           ticket.Status,
		Action:           ticket.Action,
		ActionByID:       ticket.ActionByID,
		Comment:          ticket.Comment,
		Meta: dto.TicketMetaResponse{
			IPs:                 ticket.Meta.IPs,
			Hostname:            ticket.Meta.Hostname,
			SystemUser:          ticket.Meta.SystemUser,
			ConfirmedAssets:     ticket.Meta.ConfirmedAssets,
			ConfirmedSystemUser: ticket.Meta.ConfirmedSystemUser,
			DateStart:           ticket.Meta.DateStart,
			DateExpired:         ticket.Meta.DateExpired,
		},
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
		ClosedAt:  ticket.ClosedAt,
	}
}

func grantResponse(perm *domain.AssetPermission) dto.GrantResponse {
	return dto.GrantResponse{
		ID:          perm.ID,
		TicketID:    perm.TicketID,
		Name:        perm.Name,
		Comment:     perm.Comment,
		CreatedBy:   perm.CreatedBy,
		IsActive:    perm.IsActive,
		DateStart:   perm.DateStart,
		DateExpired: perm.DateExpired,
		AssetIDs:    perm.AssetIDs,
		AccountIDs:  perm.AccountIDs,
		UserIDs:     perm.UserIDs,
		CreatedAt:   perm.CreatedAt,
	}
}
