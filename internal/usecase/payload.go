package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// Payload form field names expected by the shop creation endpoint
const (
	FieldShopID        = "shop_id"
	FieldShopName      = "shop_name"
	FieldShopLocation  = "shop_location"
	FieldShopType      = "shop_type"
	FieldPlanogramData = "planogram_data"
	FieldFacingsData   = "facings_data"
)

// AssemblePayload serializes a draft into form fields. planogram_data is an ordered JSON
// array with explicit nulls, facings_data a JSON object keyed by sku_id. Either is omitted
// when its structure is empty.
func AssemblePayload(draft *entity.ShopDraft) (*entity.ShopPayload, error) {
	details := draft.Details.Normalize()
	payload := &entity.ShopPayload{
		Fields: []entity.FormField{
			{Name: FieldShopID, Value: details.ShopID},
			{Name: FieldShopName, Value: details.ShopName},
			{Name: FieldShopLocation, Value: details.ShopLocation},
			{Name: FieldShopType, Value: details.ShopType},
		},
	}

	if len(draft.Planogram) > 0 {
		data, err := json.Marshal(draft.Planogram)
		if err != nil {
			return nil, fmt.Errorf("failed to encode planogram: %w", err)
		}
		payload.Fields = append(payload.Fields, entity.FormField{Name: FieldPlanogramData, Value: string(data)})
	}

	if len(draft.Facings) > 0 {
		data, err := json.Marshal(draft.Facings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode facings: %w", err)
		}
		payload.Fields = append(payload.Fields, entity.FormField{Name: FieldFacingsData, Value: string(data)})
	}

	return payload, nil
}
