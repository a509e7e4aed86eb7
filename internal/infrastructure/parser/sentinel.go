package parser

import "strings"

// nullTokens values that mean "no data" after trimming and case folding
var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"n/a":  {},
	"na":   {},
	"null": {},
	"none": {},
}

// NormalizeCell returns nil for null-like values and the trimmed original otherwise.
// Both the sequencer and the aggregator go through here.
func NormalizeCell(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if IsNullLike(trimmed) {
		return nil
	}
	return &trimmed
}

// IsNullLike reports whether raw is a null-like sentinel
func IsNullLike(raw string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}
