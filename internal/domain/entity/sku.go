package entity

// SkuCatalogEntry SKU registered for an organization
type SkuCatalogEntry struct {
	SkuID   string `json:"sku_id" yaml:"sku_id" db:"sku_id"`
	SkuName string `json:"sku_name" yaml:"sku_name" db:"sku_name"`
}
