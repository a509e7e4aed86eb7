package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"go.uber.org/zap"
)

// CatalogUseCase organization SKU catalog: seeding and lookups for manual entry
type CatalogUseCase interface {
	// LoadCatalog validates and stores catalog entries of one organization
	LoadCatalog(ctx context.Context, orgID string, entries []entity.SkuCatalogEntry) (int, error)

	// List all SKUs of an organization
	List(ctx context.Context, orgID string) ([]entity.SkuCatalogEntry, error)

	// Search SKUs by id or name
	Search(ctx context.Context, orgID, query string, limit int) ([]entity.SkuCatalogEntry, error)

	// CatalogAsText human readable listing for chat replies
	CatalogAsText(ctx context.Context, orgID string) (string, error)

	// HasCatalog whether the organization has any SKU registered
	HasCatalog(ctx context.Context, orgID string) (bool, error)
}

type catalogUseCase struct {
	catalogRepo repository.SkuCatalogRepository
	logger      *zap.Logger
}

// NewCatalogUseCase creates a CatalogUseCase
func NewCatalogUseCase(catalogRepo repository.SkuCatalogRepository, logger *zap.Logger) CatalogUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &catalogUseCase{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// LoadCatalog trims entries and rejects blank ids or names. A repeated sku_id in the
// input keeps its last occurrence.
func (u *catalogUseCase) LoadCatalog(ctx context.Context, orgID string, entries []entity.SkuCatalogEntry) (int, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return 0, fmt.Errorf("organization is required")
	}

	index := make(map[string]int, len(entries))
	cleaned := make([]entity.SkuCatalogEntry, 0, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.SkuID)
		name := strings.TrimSpace(e.SkuName)
		if id == "" || name == "" {
			return 0, fmt.Errorf("catalog entry %d of %s: sku_id and sku_name are required", i+1, orgID)
		}
		entry := entity.SkuCatalogEntry{SkuID: id, SkuName: name}
		if pos, ok := index[id]; ok {
			cleaned[pos] = entry
			continue
		}
		index[id] = len(cleaned)
		cleaned = append(cleaned, entry)
	}

	if err := u.catalogRepo.SaveMany(ctx, orgID, cleaned); err != nil {
		return 0, fmt.Errorf("failed to save catalog of %s: %w", orgID, err)
	}

	u.logger.Info("catalog loaded", zap.String("org", orgID), zap.Int("skus", len(cleaned)))
	return len(cleaned), nil
}

// List all SKUs of an organization
func (u *catalogUseCase) List(ctx context.Context, orgID string) ([]entity.SkuCatalogEntry, error) {
	return u.catalogRepo.ListByOrganization(ctx, orgID)
}

// Search SKUs by id or name
func (u *catalogUseCase) Search(ctx context.Context, orgID, query string, limit int) ([]entity.SkuCatalogEntry, error) {
	return u.catalogRepo.Search(ctx, orgID, query, limit)
}

// CatalogAsText one "sku_id - sku_name" line per SKU
func (u *catalogUseCase) CatalogAsText(ctx context.Context, orgID string) (string, error) {
	entries, err := u.catalogRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no SKUs registered for %s", orgID)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SKU catalog of %s:\n\n", orgID))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, e.SkuID, e.SkuName))
	}
	return sb.String(), nil
}

// HasCatalog whether the organization has any SKU registered
func (u *catalogUseCase) HasCatalog(ctx context.Context, orgID string) (bool, error) {
	entries, err := u.catalogRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}
