package parser

import "github.com/yourusername/shelf-planogram/internal/domain/entity"

// BuildPlanogram one row per data row in input order. A row is dropped only when both
// sku_id and sku_name are null-like; duplicates are kept and nothing is sorted.
func BuildPlanogram(grid *entity.Grid, cols Columns) (rows []entity.PlanogramRow, dropped int) {
	rows = make([]entity.PlanogramRow, 0, len(grid.Rows))
	for i := range grid.Rows {
		id := NormalizeCell(grid.Cell(i, cols.SkuID).Raw)
		name := NormalizeCell(grid.Cell(i, cols.SkuName).Raw)
		if id == nil && name == nil {
			dropped++
			continue
		}
		rows = append(rows, entity.PlanogramRow{SkuID: id, SkuName: name})
	}
	return rows, dropped
}
