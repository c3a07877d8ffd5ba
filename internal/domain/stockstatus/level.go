package stockstatus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/invmis/internal/domain/models"
)

// StockStatus is the threshold-relative stock-level tier.
type StockStatus string

const (
	StatusOutOfStock StockStatus = "Out of Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusInStock    StockStatus = "In Stock"
	StatusOverstock  StockStatus = "Overstock"
)

// StockStatuses lists every stock-level tier.
var StockStatuses = []StockStatus{StatusOutOfStock, StatusLowStock, StatusInStock, StatusOverstock}

// ThresholdField selects which per-item threshold marks "low stock".
type ThresholdField string

const (
	ThresholdMinimum ThresholdField = "minimum"
	ThresholdReorder ThresholdField = "reorder"
)

var (
	ErrUnknownThreshold = errors.New("unknown low stock threshold field")
	ErrUnknownStatus    = errors.New("unknown stock status")
)

// LevelPolicy fixes the two points on which the inventory views disagree:
// which threshold means low stock, and whether reaching the maximum already
// counts as overstock.
type LevelPolicy struct {
	Threshold          ThresholdField `json:"threshold"`
	OverstockInclusive bool           `json:"overstock_inclusive"`
}

var (
	// InventoryDetailsPolicy compares against the minimum stock level and
	// flags overstock only above the maximum.
	InventoryDetailsPolicy = LevelPolicy{Threshold: ThresholdMinimum}

	// StockQuantitiesPolicy compares against the reorder point and flags
	// overstock from the maximum upwards.
	StockQuantitiesPolicy = LevelPolicy{Threshold: ThresholdReorder, OverstockInclusive: true}
)

// ParseThresholdField accepts the config spellings of a threshold field.
func ParseThresholdField(value string) (ThresholdField, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "minimum", "minimum_stock_level", "min":
		return ThresholdMinimum, nil
	case "reorder", "reorder_point":
		return ThresholdReorder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownThreshold, value)
	}
}

// UnmarshalText lets JSON bodies use any spelling ParseThresholdField accepts.
func (f *ThresholdField) UnmarshalText(text []byte) error {
	parsed, err := ParseThresholdField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Validate reports whether the policy names a known threshold field.
func (p LevelPolicy) Validate() error {
	if p.Threshold != ThresholdMinimum && p.Threshold != ThresholdReorder {
		return fmt.Errorf("%w: %q", ErrUnknownThreshold, p.Threshold)
	}
	return nil
}

// ParseStockStatus maps a query value such as "low-stock" or "Low Stock"
// onto a stock-level tier.
func ParseStockStatus(value string) (StockStatus, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(value))
	switch key {
	case "outofstock", "out":
		return StatusOutOfStock, nil
	case "lowstock", "low":
		return StatusLowStock, nil
	case "instock":
		return StatusInStock, nil
	case "overstock":
		return StatusOverstock, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
}

func (p LevelPolicy) threshold(record models.StockRecord) int {
	if p.Threshold == ThresholdReorder {
		return record.ReorderPoint
	}
	return record.MinimumStockLevel
}

// ClassifyLevel applies the threshold-relative rules, first match wins:
// empty, at or under the threshold, over the maximum, otherwise in stock.
// Zero thresholds and a zero maximum are treated as unset.
func ClassifyLevel(record models.StockRecord, policy LevelPolicy) StockStatus {
	current := max(record.CurrentQuantity, 0)
	threshold := max(policy.threshold(record), 0)
	maximum := max(record.MaximumStockLevel, 0)

	switch {
	case current == 0:
		return StatusOutOfStock
	case threshold > 0 && current <= threshold:
		return StatusLowStock
	case maximum > 0 && (current > maximum || (policy.OverstockInclusive && current == maximum)):
		return StatusOverstock
	default:
		return StatusInStock
	}
}

// StockLevelItem is an item annotated with its stock-level tier.
type StockLevelItem struct {
	Item    models.InventoryItem `json:"item"`
	Status  StockStatus          `json:"stock_status"`
	Display Display              `json:"display"`
}

// BuildLevels classifies every item under the policy, keeping input order.
func BuildLevels(items []models.InventoryItem, policy LevelPolicy) []StockLevelItem {
	levels := make([]StockLevelItem, 0, len(items))
	for _, item := range items {
		status := ClassifyLevel(item.Record(), policy)
		levels = append(levels, StockLevelItem{Item: item, Status: status, Display: LevelDisplay(status)})
	}
	return levels
}

// CountLevels tallies items per tier with every tier present.
func CountLevels(levels []StockLevelItem) map[StockStatus]int {
	counts := make(map[StockStatus]int, len(StockStatuses))
	for _, status := range StockStatuses {
		counts[status] = 0
	}
	for _, level := range levels {
		counts[level.Status]++
	}
	return counts
}
