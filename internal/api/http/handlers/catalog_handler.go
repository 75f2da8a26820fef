package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-request-service/internal/api/dto"
	"github.com/spec-kit/access-request-service/internal/domain"
	"github.com/spec-kit/access-request-service/internal/repository"
)

// CatalogHandler exposes read-only asset, account, and org listings used to
// compose and review requests.
type CatalogHandler struct {
	assets   repository.AssetRepository
	accounts repository.AccountRepository
	orgs     repository.OrganizationRepository
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(assets repository.AssetRepository, accounts repository.AccountRepository, orgs repository.OrganizationRepository) *CatalogHandler {
	return &CatalogHandler{assets: assets, accounts: accounts, orgs: orgs}
}

// ListAssets GET /catalog/assets.
func (h *CatalogHandler) ListAssets(c *fiber.Ctx) error {
	orgID := c.Query("org_id", domain.DefaultOrgID)
	limit, offset := parsePaging(c)
	assets, err := h.assets.List(c.Context(), orgID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, dto.AssetResponse{
			ID:       a.ID,
			OrgID:    a.OrgID,
			Hostname: a.Hostname,
			IP:       a.IP,
			IsActive: a.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAccounts GET /catalog/accounts.
func (h *CatalogHandler) ListAccounts(c *fiber.Ctx) error {
	orgID := c.Query("org_id", domain.DefaultOrgID)
	limit, offset := parsePaging(c)
	accounts, err := h.accounts.List(c.Context(), orgID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, dto.AccountResponse{
			ID:       a.ID,
			OrgID:    a.OrgID,
			Name:     a.Name,
			Username: a.Username,
			Protocol: a.Protocol,
			IsActive: a.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListOrganizations GET /catalog/organizations.
func (h *CatalogHandler) ListOrganizations(c *fiber.Ctx) error {
	limit, offset := parsePaging(c)
	orgs, err := h.orgs.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		items = append(items, dto.OrganizationResponse{
			ID:       org.ID,
			Name:     org.Name,
			IsActive: org.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parsePaging(c *fiber.Ctx) (int, int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	return pageSize, (page - 1) * pageSize
}
