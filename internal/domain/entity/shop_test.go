package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopDetails_Validate(t *testing.T) {
	ok := ShopDetails{ShopID: " S1 ", ShopName: "Big Bazaar", ShopLocation: "Mumbai", ShopType: "Retail"}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "S1", ok.Normalize().ShopID)

	missing := ok
	missing.ShopLocation = "   "
	var invalid *InvalidShopFieldError
	require.ErrorAs(t, missing.Validate(), &invalid)
	assert.Equal(t, "shop_location", invalid.Field)
}

func TestShopDraft_StateAndClone(t *testing.T) {
	d := &ShopDraft{ID: "d1"}
	assert.Equal(t, DraftNoEntries, d.State())

	d.Planogram = []PlanogramRow{NewPlanogramRow("A", "Apple")}
	assert.Equal(t, DraftHasEntries, d.State())

	c := d.Clone()
	c.Planogram[0] = NewPlanogramRow("B", "Banana")
	assert.Equal(t, "A", d.Planogram[0].ID())

	d.Planogram = nil
	d.Facings = FacingsMap{"A": {SkuID: "A"}}
	assert.Equal(t, DraftHasEntries, d.State())
}
