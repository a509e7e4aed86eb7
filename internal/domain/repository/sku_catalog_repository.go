package repository

import (
	"context"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// SkuCatalogRepository organization SKU catalog, read-only to the draft pipeline
type SkuCatalogRepository interface {
	// ListByOrganization all SKUs of an organization sorted by sku_id
	ListByOrganization(ctx context.Context, orgID string) ([]entity.SkuCatalogEntry, error)

	// GetByID one SKU; returns *entity.UnknownSkuError when absent
	GetByID(ctx context.Context, orgID, skuID string) (*entity.SkuCatalogEntry, error)

	// Search SKUs whose id or name matches the query, best matches first
	Search(ctx context.Context, orgID, query string, limit int) ([]entity.SkuCatalogEntry, error)

	// SaveMany catalog seeding, used by the catalog loader only
	SaveMany(ctx context.Context, orgID string, entries []entity.SkuCatalogEntry) error
}
