package models

import "strings"

// StockRecord is the quantity/threshold tuple the classifier works on.
// Zero thresholds mean "unset".
type StockRecord struct {
	CurrentQuantity   int    `json:"current_quantity"`
	MinimumStockLevel int    `json:"minimum_stock_level"`
	ReorderPoint      int    `json:"reorder_point"`
	MaximumStockLevel int    `json:"maximum_stock_level"`
	Unit              string `json:"unit"`
}

// InventoryItem mirrors one stock row returned by the InvMIS backend. Numeric
// columns come from LEFT JOINs and may be null.
type InventoryItem struct {
	ID                string `json:"id" bson:"id"`
	ItemCode          string `json:"item_code" bson:"item_code"`
	ItemName          string `json:"item_name" bson:"item_name"`
	Nomenclature      string `json:"nomenclature,omitempty" bson:"nomenclature,omitempty"`
	CategoryName      string `json:"category_name" bson:"category_name"`
	Unit              string `json:"unit" bson:"unit"`
	CurrentQuantity   *int   `json:"current_quantity" bson:"current_quantity"`
	AvailableQuantity *int   `json:"available_quantity,omitempty" bson:"available_quantity,omitempty"`
	ReservedQuantity  *int   `json:"reserved_quantity,omitempty" bson:"reserved_quantity,omitempty"`
	MinimumStockLevel *int   `json:"minimum_stock_level" bson:"minimum_stock_level"`
	ReorderPoint      *int   `json:"reorder_point" bson:"reorder_point"`
	MaximumStockLevel *int   `json:"maximum_stock_level" bson:"maximum_stock_level"`
	LastUpdated       string `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
}

// Name returns the display name. The stock-quantities endpoint aliases the
// nomenclature column as item_name while the current-stock endpoint does not.
func (i InventoryItem) Name() string {
	if i.ItemName != "" {
		return i.ItemName
	}
	return i.Nomenclature
}

// Record normalizes the row into a StockRecord: nulls become 0 and negative
// values are clamped to 0.
func (i InventoryItem) Record() StockRecord {
	return StockRecord{
		CurrentQuantity:   nonNegative(i.CurrentQuantity),
		MinimumStockLevel: nonNegative(i.MinimumStockLevel),
		ReorderPoint:      nonNegative(i.ReorderPoint),
		MaximumStockLevel: nonNegative(i.MaximumStockLevel),
		Unit:              i.Unit,
	}
}

// Matches reports whether the lowercase search term appears in the item
// code, name or, when withCategory is set, the category.
func (i InventoryItem) Matches(search string, withCategory bool) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(i.ItemCode), term) || strings.Contains(strings.ToLower(i.Name()), term) {
		return true
	}
	return withCategory && strings.Contains(strings.ToLower(i.CategoryName), term)
}

// IntPtr returns a pointer to v for filling the nullable quantity fields.
func IntPtr(v int) *int {
	return &v
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
