package stock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/domain/models"
	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
)

// Source supplies stock rows. The InvMIS REST client and the spreadsheet
// adapter both satisfy it.
type Source interface {
	ListStock(ctx context.Context) ([]models.InventoryItem, error)
}

// Observer receives per-tier counts after each classification pass.
type Observer interface {
	ObserveAlerts(counts map[stockstatus.AlertLevel]int)
	ObserveLevels(counts map[stockstatus.StockStatus]int)
}

// AlertFilter narrows an alert list. Zero values mean "all".
type AlertFilter struct {
	Search string
	Level  stockstatus.AlertLevel
}

// AlertReport is the alert list plus counts taken before filtering.
type AlertReport struct {
	Alerts []stockstatus.StockAlert        `json:"alerts"`
	Counts map[stockstatus.AlertLevel]int `json:"counts"`
	Total  int                             `json:"total"`
}

// LevelFilter narrows a stock-level list. Zero values mean "all".
type LevelFilter struct {
	Search string
	Status stockstatus.StockStatus
}

// LevelReport is the classified item list plus counts taken before filtering.
type LevelReport struct {
	Items  []stockstatus.StockLevelItem    `json:"items"`
	Counts map[stockstatus.StockStatus]int `json:"counts"`
	Policy stockstatus.LevelPolicy         `json:"policy"`
}

// Classification is the result of running both policies on one record.
type Classification struct {
	Record       models.StockRecord      `json:"record"`
	AlertLevel   stockstatus.AlertLevel  `json:"alert_type"`
	AlertMessage string                  `json:"alert_message,omitempty"`
	AlertDisplay *stockstatus.Display    `json:"alert_display,omitempty"`
	Status       stockstatus.StockStatus `json:"stock_status"`
	Display      stockstatus.Display     `json:"display"`
	Policy       stockstatus.LevelPolicy `json:"policy"`
}

// Service classifies stock fetched from a Source. It keeps no state between
// calls: every call fetches a fresh snapshot and classifies it once.
type Service struct {
	source   Source
	policy   stockstatus.LevelPolicy
	observer Observer
	logger   *zap.Logger
}

// NewService wires a stock service. observer may be nil.
func NewService(source Source, policy stockstatus.LevelPolicy, observer Observer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, policy: policy, observer: observer, logger: logger}
}

// Alerts returns the severity-ordered alert list.
func (s *Service) Alerts(ctx context.Context, filter AlertFilter) (AlertReport, error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return AlertReport{}, err
	}

	alerts := stockstatus.BuildAlerts(items)
	counts := stockstatus.CountAlerts(alerts)
	if s.observer != nil {
		s.observer.ObserveAlerts(counts)
	}

	filtered := make([]stockstatus.StockAlert, 0, len(alerts))
	for _, alert := range alerts {
		if filter.Level != "" && alert.Level != filter.Level {
			continue
		}
		if !alert.Item.Matches(filter.Search, false) {
			continue
		}
		filtered = append(filtered, alert)
	}

	s.logger.Debug("alerts classified",
		zap.Int("items", len(items)),
		zap.Int("alerts", len(alerts)),
		zap.Int("returned", len(filtered)))

	return AlertReport{Alerts: filtered, Counts: counts, Total: len(alerts)}, nil
}

// Levels returns every item with its stock-level status in source order.
func (s *Service) Levels(ctx context.Context, filter LevelFilter) (LevelReport, error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return LevelReport{}, err
	}

	levels := stockstatus.BuildLevels(items, s.policy)
	counts := stockstatus.CountLevels(levels)
	if s.observer != nil {
		s.observer.ObserveLevels(counts)
	}

	filtered := make([]stockstatus.StockLevelItem, 0, len(levels))
	for _, level := range levels {
		if filter.Status != "" && level.Status != filter.Status {
			continue
		}
		if !level.Item.Matches(filter.Search, true) {
			continue
		}
		filtered = append(filtered, level)
	}

	return LevelReport{Items: filtered, Counts: counts, Policy: s.policy}, nil
}

// Classify runs both policies on a single record. A nil policy selects the
// service default.
func (s *Service) Classify(record models.StockRecord, policy *stockstatus.LevelPolicy) (Classification, error) {
	effective := s.policy
	if policy != nil {
		if err := policy.Validate(); err != nil {
			return Classification{}, err
		}
		effective = *policy
	}

	level, message := stockstatus.ClassifyAlert(record.CurrentQuantity, record.Unit)
	status := stockstatus.ClassifyLevel(record, effective)

	result := Classification{
		Record:       record,
		AlertLevel:   level,
		AlertMessage: message,
		Status:       status,
		Display:      stockstatus.LevelDisplay(status),
		Policy:       effective,
	}
	if level != stockstatus.AlertNone {
		display := stockstatus.AlertDisplay(level)
		result.AlertDisplay = &display
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.source.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}
