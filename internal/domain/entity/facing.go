package entity

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// FacingEntry expected facings for one SKU
type FacingEntry struct {
	SkuID   string `json:"-"`
	SkuName string `json:"sku_name"`
	Facings int    `json:"facings"`
}

// FacingsMap facings keyed by sku_id. A SKU absent from the map has no expectation set.
type FacingsMap map[string]FacingEntry

// Keys sorted sku_id list
func (m FacingsMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy
func (m FacingsMap) Clone() FacingsMap {
	if m == nil {
		return nil
	}
	out := make(FacingsMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ParseFacings parses a non-negative integer for both file cells and manual entry.
// Integral decimals like "7.0" from spreadsheet exports are accepted.
func ParseFacings(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &InvalidFacingsError{Value: value}
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0, &InvalidFacingsError{Value: value}
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, &InvalidFacingsError{Value: value}
	}
	return int(f), nil
}
