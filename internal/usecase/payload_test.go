package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

func testDetails() entity.ShopDetails {
	return entity.ShopDetails{ShopID: " S-1 ", ShopName: "Corner", ShopLocation: "Main st", ShopType: "mini"}
}

func TestAssemblePayload_OmitsEmptyStructures(t *testing.T) {
	payload, err := AssemblePayload(&entity.ShopDraft{Details: testDetails(), Facings: entity.FacingsMap{}})
	require.NoError(t, err)

	names := make([]string, 0, len(payload.Fields))
	for _, f := range payload.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{FieldShopID, FieldShopName, FieldShopLocation, FieldShopType}, names)

	id, _ := payload.Get(FieldShopID)
	assert.Equal(t, "S-1", id)
	_, ok := payload.Get(FieldPlanogramData)
	assert.False(t, ok)
	_, ok = payload.Get(FieldFacingsData)
	assert.False(t, ok)
}

func TestAssemblePayload_PlanogramKeepsOrderAndNulls(t *testing.T) {
	name := "Cola"
	draft := &entity.ShopDraft{
		Details: testDetails(),
		Planogram: []entity.PlanogramRow{
			entity.NewPlanogramRow("B", "Bread"),
			{SkuID: nil, SkuName: &name},
			entity.NewPlanogramRow("B", "Bread"),
		},
	}

	payload, err := AssemblePayload(draft)
	require.NoError(t, err)

	data, ok := payload.Get(FieldPlanogramData)
	require.True(t, ok)
	assert.JSONEq(t, `[
		{"sku_id":"B","sku_name":"Bread"},
		{"sku_id":null,"sku_name":"Cola"},
		{"sku_id":"B","sku_name":"Bread"}
	]`, data)
	_, ok = payload.Get(FieldFacingsData)
	assert.False(t, ok)
}

func TestAssemblePayload_FacingsKeyedBySku(t *testing.T) {
	draft := &entity.ShopDraft{
		Details: testDetails(),
		Facings: entity.FacingsMap{
			"A": {SkuID: "A", SkuName: "Apple", Facings: 3},
		},
	}

	payload, err := AssemblePayload(draft)
	require.NoError(t, err)

	data, ok := payload.Get(FieldFacingsData)
	require.True(t, ok)
	assert.JSONEq(t, `{"A":{"sku_name":"Apple","facings":3}}`, data)
}
