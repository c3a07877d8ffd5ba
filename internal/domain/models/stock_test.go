package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryItem_RecordDefaultsAndClamps(t *testing.T) {
	item := InventoryItem{
		Unit:              "pcs",
		CurrentQuantity:   IntPtr(-2),
		MinimumStockLevel: IntPtr(10),
		MaximumStockLevel: nil,
	}

	assert.Equal(t, StockRecord{CurrentQuantity: 0, MinimumStockLevel: 10, Unit: "pcs"}, item.Record())
}

func TestInventoryItem_Name(t *testing.T) {
	assert.Equal(t, "Stapler", InventoryItem{ItemName: "Stapler", Nomenclature: "STAPLER HD"}.Name())
	assert.Equal(t, "STAPLER HD", InventoryItem{Nomenclature: "STAPLER HD"}.Name())
}

func TestInventoryItem_Matches(t *testing.T) {
	item := InventoryItem{ItemCode: "IT-001", Nomenclature: "Laser Printer", CategoryName: "Electronics"}

	assert.True(t, item.Matches("", false))
	assert.True(t, item.Matches("it-0", false))
	assert.True(t, item.Matches("PRINTER", false))
	assert.False(t, item.Matches("electro", false))
	assert.True(t, item.Matches("electro", true))
}
