package parser

import (
	"strings"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// Logical field names
const (
	FieldSkuID   = "sku_id"
	FieldSkuName = "sku_name"
	FieldFacings = "facings"
)

// facingsAliases header spellings accepted for the optional facings column
var facingsAliases = []string{FieldFacings, "facings_count"}

// Columns zero-based header positions; Facings is -1 when the file has no facings column
type Columns struct {
	SkuID   int
	SkuName int
	Facings int
}

// HasFacings facings column present
func (c Columns) HasFacings() bool {
	return c.Facings >= 0
}

// ResolveColumns maps the logical fields onto header positions. Headers are compared
// lower-cased and trimmed; the first matching column wins.
func ResolveColumns(header []string) (Columns, error) {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	cols := Columns{SkuID: -1, SkuName: -1, Facings: -1}
	for _, required := range []string{FieldSkuID, FieldSkuName} {
		idx, ok := index[required]
		if !ok {
			return Columns{}, &entity.MissingColumnError{Field: required}
		}
		if required == FieldSkuID {
			cols.SkuID = idx
		} else {
			cols.SkuName = idx
		}
	}

	for _, alias := range facingsAliases {
		if idx, ok := index[alias]; ok {
			cols.Facings = idx
			break
		}
	}
	return cols, nil
}
