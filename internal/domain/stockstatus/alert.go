// Package stockstatus derives stock health labels from quantity fields. Every
// function here is pure: no I/O, no shared state, same input same output.
package stockstatus

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/invmis/internal/domain/models"
)

// AlertLevel is the absolute-quantity alert tier.
type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertWarning  AlertLevel = "warning"
	AlertUrgent   AlertLevel = "urgent"
	AlertCritical AlertLevel = "critical"
)

const (
	urgentCeiling  = 5
	warningCeiling = 10
)

// ErrUnknownAlertLevel is returned when a filter value names no alert tier.
var ErrUnknownAlertLevel = errors.New("unknown alert level")

// AlertLevels lists the reportable tiers in severity order.
var AlertLevels = []AlertLevel{AlertCritical, AlertUrgent, AlertWarning}

// Rank orders tiers for sorting; lower is more severe.
func (l AlertLevel) Rank() int {
	switch l {
	case AlertCritical:
		return 0
	case AlertUrgent:
		return 1
	case AlertWarning:
		return 2
	default:
		return 3
	}
}

// ParseAlertLevel maps a query value onto a reportable tier.
func ParseAlertLevel(value string) (AlertLevel, error) {
	level := AlertLevel(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range AlertLevels {
		if level == known {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlertLevel, value)
}

// ClassifyAlert applies the absolute-quantity bands. The first matching band
// wins; quantities above the warning band yield AlertNone and no message.
func ClassifyAlert(quantity int, unit string) (AlertLevel, string) {
	quantity = max(quantity, 0)

	switch {
	case quantity == 0:
		return AlertCritical, "OUT OF STOCK - Immediate action required"
	case quantity <= urgentCeiling:
		return AlertUrgent, fmt.Sprintf("Very low stock - Only %d %s remaining", quantity, unit)
	case quantity <= warningCeiling:
		return AlertWarning, fmt.Sprintf("Low stock - %d %s available", quantity, unit)
	default:
		return AlertNone, ""
	}
}

// StockAlert is one entry in an alert list.
type StockAlert struct {
	Item    models.InventoryItem `json:"item"`
	Level   AlertLevel           `json:"alert_type"`
	Message string               `json:"alert_message"`
	Display Display              `json:"display"`
}

// BuildAlerts classifies every item, drops the ones without an alert and
// returns the rest in severity order.
func BuildAlerts(items []models.InventoryItem) []StockAlert {
	alerts := make([]StockAlert, 0, len(items))
	for _, item := range items {
		record := item.Record()
		level, message := ClassifyAlert(record.CurrentQuantity, record.Unit)
		if level == AlertNone {
			continue
		}
		alerts = append(alerts, StockAlert{
			Item:    item,
			Level:   level,
			Message: message,
			Display: AlertDisplay(level),
		})
	}
	SortAlerts(alerts)
	return alerts
}

// SortAlerts orders alerts by severity in place. Alerts of the same tier keep
// their relative order.
func SortAlerts(alerts []StockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Level.Rank() < alerts[j].Level.Rank()
	})
}

// CountAlerts tallies alerts per tier. Every reportable tier is present in
// the result, zero or not.
func CountAlerts(alerts []StockAlert) map[AlertLevel]int {
	counts := make(map[AlertLevel]int, len(AlertLevels))
	for _, level := range AlertLevels {
		counts[level] = 0
	}
	for _, alert := range alerts {
		counts[alert.Level]++
	}
	return counts
}
