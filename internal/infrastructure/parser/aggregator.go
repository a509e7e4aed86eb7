package parser

import (
	"strings"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// BuildFacings facings keyed by sku_id, later rows overwriting earlier ones entirely.
// Returns nil when the file has no facings column. Rows with a null-like sku_id or
// facings cell contribute nothing; an invalid facings value fails the whole file.
func BuildFacings(grid *entity.Grid, cols Columns) (entity.FacingsMap, error) {
	if !cols.HasFacings() {
		return nil, nil
	}

	facings := make(entity.FacingsMap)
	for i := range grid.Rows {
		id := NormalizeCell(grid.Cell(i, cols.SkuID).Raw)
		if id == nil {
			continue
		}
		rawCount := grid.Cell(i, cols.Facings).Raw
		if IsNullLike(rawCount) {
			continue
		}
		count, err := entity.ParseFacings(rawCount)
		if err != nil {
			return nil, &entity.InvalidFacingsError{Value: strings.TrimSpace(rawCount), Row: i + 1}
		}

		entry := entity.FacingEntry{SkuID: *id, Facings: count}
		if name := NormalizeCell(grid.Cell(i, cols.SkuName).Raw); name != nil {
			entry.SkuName = *name
		}
		facings[*id] = entry
	}
	return facings, nil
}
