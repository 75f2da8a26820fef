package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/access-request-service/internal/domain"
)

// AssetRepository resolves catalog assets.
type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	// ListLiveByIDs resolves the given ids against the live catalog. Missing
	// or deactivated assets are silently dropped from the result; callers
	// compare counts to detect catalog drift.
	ListLiveByIDs(ctx context.Context, ids []string) ([]domain.Asset, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]domain.Asset, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates the repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, org_id, hostname, ip, is_active, created_at, updated_at`

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id=$1`
	var asset domain.Asset
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&asset.ID,
		&asset.OrgID,
		&asset.Hostname,
		&asset.IP,
		&asset.IsActive,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListLiveByIDs(ctx context.Context, ids []string) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return []domain.Asset{}, nil
	}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = ANY($1) AND is_active`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func (r *assetRepository) List(ctx context.Context, orgID string, limit, offset int) ([]domain.Asset, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE org_id=$1 AND is_active ORDER BY hostname LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func scanAssets(rows pgx.Rows) ([]domain.Asset, error) {
	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(
			&asset.ID,
			&asset.OrgID,
			&asset.Hostname,
			&asset.IP,
			&asset.IsActive,
			&asset.CreatedAt,
			&asset.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}
