package entity

// PlanogramRow one shelf slot in planogram order. Nil fields are data gaps and encode as null.
type PlanogramRow struct {
	SkuID   *string `json:"sku_id"`
	SkuName *string `json:"sku_name"`
}

// NewPlanogramRow builds a row with both fields present
func NewPlanogramRow(skuID, skuName string) PlanogramRow {
	return PlanogramRow{SkuID: &skuID, SkuName: &skuName}
}

// ID returns the sku_id or "" when it is null
func (r PlanogramRow) ID() string {
	if r.SkuID == nil {
		return ""
	}
	return *r.SkuID
}

// Name returns the sku_name or "" when it is null
func (r PlanogramRow) Name() string {
	if r.SkuName == nil {
		return ""
	}
	return *r.SkuName
}

// ImportResult output of parsing one uploaded file
type ImportResult struct {
	Planogram        []PlanogramRow
	Facings          FacingsMap
	HasFacingsColumn bool
	DataRows         int
	DroppedRows      int
	Source           string
}
