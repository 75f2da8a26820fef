package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/access-request-service/internal/domain"
)

// PermissionCreate describes a grant to materialize. Nil date bounds mean the
// store defaults apply, not "unbounded".
type PermissionCreate struct {
	TicketID    string
	Name        string
	Comment     string
	CreatedBy   string
	DateStart   *time.Time
	DateExpired *time.Time
	AssetIDs    []string
	AccountID   string
	UserID      string
}

// PermissionRepository persists asset permission grants.
type PermissionRepository interface {
	// CreateTx inserts the grant row and its three association sets inside
	// the caller's transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, input PermissionCreate) (*domain.AssetPermission, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.AssetPermission, error)
	// DeactivateExpired clears the active flag on grants whose expiry has
	// passed; returns the number of grants swept.
	DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error)
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository instantiates the repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) CreateTx(ctx context.Context, tx pgx.Tx, input PermissionCreate) (*domain.AssetPermission, error) {
	columns := []string{"ticket_id", "name", "comment", "created_by"}
	args := []any{input.TicketID, input.Name, input.Comment, input.CreatedBy}
	if input.DateStart != nil {
		columns = append(columns, "date_start")
		args = append(args, *input.DateStart)
	}
	if input.DateExpired != nil {
		columns = append(columns, "date_expired")
		args = append(args, *input.DateExpired)
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
        INSERT INTO asset_permissions (%s)
        VALUES (%s)
        RETURNING id, is_active, date_start, date_expired, created_at, updated_at`,
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	perm := &domain.AssetPermission{
		TicketID:  input.TicketID,
		Name:      input.Name,
		Comment:   input.Comment,
		CreatedBy: input.CreatedBy,
	}
	if err := tx.QueryRow(ctx, query, args...).Scan(
		&perm.ID,
		&perm.IsActive,
		&perm.DateStart,
		&perm.DateExpired,
		&perm.CreatedAt,
		&perm.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, assetID := range input.AssetIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO asset_permission_assets (permission_id, asset_id) VALUES ($1,$2)`,
			perm.ID, assetID); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO asset_permission_accounts (permission_id, account_id) VALUES ($1,$2)`,
		perm.ID, input.AccountID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO asset_permission_users (permission_id, user_id) VALUES ($1,$2)`,
		perm.ID, input.UserID); err != nil {
		return nil, err
	}

	perm.AssetIDs = append([]string(nil), input.AssetIDs...)
	perm.AccountIDs = []string{input.AccountID}
	perm.UserIDs = []string{input.UserID}
	return perm, nil
}

func (r *permissionRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.AssetPermission, error) {
	const query = `
        SELECT id, ticket_id, name, comment, created_by, is_active, date_start, date_expired, created_at, updated_at
        FROM asset_permissions WHERE ticket_id=$1`
	var perm domain.AssetPermission
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&perm.ID,
		&perm.TicketID,
		&perm.Name,
		&perm.Comment,
		&perm.CreatedBy,
		&perm.IsActive,
		&perm.DateStart,
		&perm.DateExpired,
		&perm.CreatedAt,
		&perm.UpdatedAt,
	); err != nil {
		return nil, err
	}

	assetRows, err := r.pool.Query(ctx, `SELECT asset_id FROM asset_permission_assets WHERE permission_id=$1`, perm.ID)
	if err != nil {
		return nil, err
	}
	perm.AssetIDs, err = scanIDs(assetRows)
	if err != nil {
		return nil, err
	}

	accountRows, err := r.pool.Query(ctx, `SELECT account_id FROM asset_permission_accounts WHERE permission_id=$1`, perm.ID)
	if err != nil {
		return nil, err
	}
	perm.AccountIDs, err = scanIDs(accountRows)
	if err != nil {
		return nil, err
	}

	userRows, err := r.pool.Query(ctx, `SELECT user_id FROM asset_permission_users WHERE permission_id=$1`, perm.ID)
	if err != nil {
		return nil, err
	}
	perm.UserIDs, err = scanIDs(userRows)
	if err != nil {
		return nil, err
	}

	return &perm, nil
}

func (r *permissionRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int64, error) {
	const query = `UPDATE asset_permissions SET is_active=FALSE, updated_at=NOW() WHERE is_active AND date_expired < $1`
	cmd, err := r.pool.Exec(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
