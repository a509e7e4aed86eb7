package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCell(t *testing.T) {
	nullLike := []string{"", "   ", "nan", "NaN", " N/A ", "na", "NA", "null", "NULL", "None", "none"}
	for _, raw := range nullLike {
		assert.Nil(t, NormalizeCell(raw), "%q should be null-like", raw)
		assert.True(t, IsNullLike(raw), raw)
	}

	present := map[string]string{
		"SKU1":      "SKU1",
		"  Widget ": "Widget",
		"nano":      "nano",
		"0":         "0",
		"-":         "-",
		"N/A pack":  "N/A pack",
	}
	for raw, want := range present {
		got := NormalizeCell(raw)
		if assert.NotNil(t, got, raw) {
			assert.Equal(t, want, *got)
		}
	}
}
