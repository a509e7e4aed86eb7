package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFacings(t *testing.T) {
	valid := map[string]int{"0": 0, "5": 5, " 12 ": 12, "7.0": 7, "+3": 3}
	for raw, want := range valid {
		got, err := ParseFacings(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "-1", "2.5", "abc", "nan", "Inf", "-0.5", "1e12"} {
		_, err := ParseFacings(raw)
		var invalid *InvalidFacingsError
		assert.ErrorAs(t, err, &invalid, raw)
	}
}

func TestFacingsMap_KeysAndClone(t *testing.T) {
	m := FacingsMap{"B": {SkuID: "B", Facings: 1}, "A": {SkuID: "A", Facings: 2}}
	assert.Equal(t, []string{"A", "B"}, m.Keys())

	c := m.Clone()
	c["A"] = FacingEntry{SkuID: "A", Facings: 9}
	assert.Equal(t, 2, m["A"].Facings)

	var empty FacingsMap
	assert.Nil(t, empty.Clone())
}
