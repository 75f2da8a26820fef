package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/access-request-service/internal/domain"
)

// ErrStaleTicket signals that a conditional ticket update matched no row:
// either a concurrent writer recorded the same action first, or the ticket
// was closed underneath us.
var ErrStaleTicket = errors.New("ticket state changed concurrently")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OrgID       *string
	RequesterID *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Actions     []domain.TicketAction
	SearchTerm  *string
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateMeta(ctx context.Context, ticketID string, meta domain.TicketMeta) error
	Close(ctx context.Context, ticketID string) error
	// PerformAction records the review decision with a compare-and-set
	// predicate: the update only lands while the ticket is OPEN and its
	// current action differs from the requested one.
	PerformAction(ctx context.Context, ticketID string, action domain.TicketAction, actorID, comment string) error
	// PerformActionTx is PerformAction staged inside the caller's transaction.
	PerformActionTx(ctx context.Context, tx pgx.Tx, ticketID string, action domain.TicketAction, actorID, comment string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, serial_key, title, org_id, requester_id, user_display,
               assignee_ids, assignees_display, status, action, action_by, comment,
               meta, created_at, updated_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (serial_key, title, org_id, requester_id, user_display, assignee_ids, assignees_display, status, action, meta)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.SerialKey,
		ticket.Title,
		ticket.OrgID,
		ticket.RequesterID,
		ticket.UserDisplay,
		ticket.AssigneeIDs,
		ticket.AssigneesDisplay,
		ticket.Status,
		ticket.Action,
		ticket.Meta,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.SerialKey,
		&ticket.Title,
		&ticket.OrgID,
		&ticket.RequesterID,
		&ticket.UserDisplay,
		&ticket.AssigneeIDs,
		&ticket.AssigneesDisplay,
		&ticket.Status,
		&ticket.Action,
		&ticket.ActionByID,
		&ticket.Comment,
		&ticket.Meta,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OrgID != nil {
		args = append(args, *filter.OrgID)
		clauses = append(clauses, fmt.Sprintf("org_id=$%d", len(args)))
	}
	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("requester_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(assignee_ids)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Actions) > 0 {
		placeholders := make([]string, len(filter.Actions))
		for i, action := range filter.Actions {
			args = append(args, action)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("action IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(user_display) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateMeta(ctx context.Context, ticketID string, meta domain.TicketMeta) error {
	const query = `UPDATE tickets SET meta=$1, updated_at=NOW() WHERE id=$2 AND status='OPEN'`
	cmd, err := r.pool.Exec(ctx, query, meta, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Close(ctx context.Context, ticketID string) error {
	const query = `UPDATE tickets SET status='CLOSED', closed_at=NOW(), updated_at=NOW() WHERE id=$1 AND status='OPEN'`
	cmd, err := r.pool.Exec(ctx, query, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const performActionQuery = `
        UPDATE tickets SET action=$2, action_by=$3, comment=$4, updated_at=NOW()
        WHERE id=$1 AND status='OPEN' AND action <> $2`

func (r *ticketRepository) PerformAction(ctx context.Context, ticketID string, action domain.TicketAction, actorID, comment string) error {
	cmd, err := r.pool.Exec(ctx, performActionQuery, ticketID, action, actorID, comment)
	return checkActionResult(cmd, err)
}

func (r *ticketRepository) PerformActionTx(ctx context.Context, tx pgx.Tx, ticketID string, action domain.TicketAction, actorID, comment string) error {
	cmd, err := tx.Exec(ctx, performActionQuery, ticketID, action, actorID, comment)
	return checkActionResult(cmd, err)
}

func checkActionResult(cmd pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.SerialKey,
			&ticket.Title,
			&ticket.OrgID,
			&ticket.RequesterID,
			&ticket.UserDisplay,
			&ticket.AssigneeIDs,
			&ticket.AssigneesDisplay,
			&ticket.Status,
			&ticket.Action,
			&ticket.ActionByID,
			&ticket.Comment,
			&ticket.Meta,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
