package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/domain/models"
	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
	"github.com/mamadbah2/invmis/internal/metrics"
	"github.com/mamadbah2/invmis/internal/service/stock"
)

const digestTimeLayout = "2006-01-02 15:04"

// AlertSource produces the current alert report.
type AlertSource interface {
	Alerts(ctx context.Context, filter stock.AlertFilter) (stock.AlertReport, error)
}

// SnapshotStore persists scan results.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.AlertSnapshot) error
}

// Notifier delivers a text digest.
type Notifier interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// ScanObserver records scan outcomes.
type ScanObserver interface {
	ObserveScan(result string, elapsed time.Duration)
}

// Options configures a Service. Stores, Notifier and Observer are optional.
type Options struct {
	Source   string
	Stores   []SnapshotStore
	Notifier Notifier
	NotifyTo string
	MaxLines int
	Observer ScanObserver
	Location *time.Location
}

// Service runs alert scans and turns them into snapshots and digests.
type Service struct {
	alerts AlertSource
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(alerts AlertSource, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = 20
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{alerts: alerts, opts: opts, logger: logger, now: time.Now}
}

// RunAlertScan classifies current stock, stores a snapshot in every store
// and sends the digest when there is something to report. A failing store
// or notifier does not stop the others; their errors are joined.
func (s *Service) RunAlertScan(ctx context.Context) (models.AlertSnapshot, error) {
	started := s.now()

	report, err := s.alerts.Alerts(ctx, stock.AlertFilter{})
	if err != nil {
		s.observe(metrics.ScanFailed, started)
		return models.AlertSnapshot{}, fmt.Errorf("classify alerts: %w", err)
	}

	snapshot := BuildSnapshot(report, started, s.opts.Source)

	var errs []error
	for _, store := range s.opts.Stores {
		if err := store.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to save alert snapshot", zap.Error(err))
			errs = append(errs, fmt.Errorf("save snapshot: %w", err))
		}
	}

	if s.opts.Notifier != nil && snapshot.Total > 0 {
		digest := FormatDigest(report, started.In(s.opts.Location), s.opts.MaxLines)
		if id, err := s.opts.Notifier.SendText(ctx, s.opts.NotifyTo, digest); err != nil {
			s.logger.Error("failed to send alert digest", zap.Error(err))
			errs = append(errs, fmt.Errorf("send digest: %w", err))
		} else {
			s.logger.Info("alert digest sent", zap.String("message_id", id), zap.Int("alerts", snapshot.Total))
		}
	}

	result := metrics.ScanSucceeded
	if len(errs) > 0 {
		result = metrics.ScanFailed
	}
	s.observe(result, started)

	s.logger.Info("alert scan completed",
		zap.Int("critical", snapshot.Critical),
		zap.Int("urgent", snapshot.Urgent),
		zap.Int("warning", snapshot.Warning))

	return snapshot, errors.Join(errs...)
}

func (s *Service) observe(result string, started time.Time) {
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveScan(result, s.now().Sub(started))
	}
}

// BuildSnapshot converts an alert report into its persisted form under a
// fresh snapshot id.
func BuildSnapshot(report stock.AlertReport, takenAt time.Time, source string) models.AlertSnapshot {
	entries := make([]models.AlertEntry, 0, len(report.Alerts))
	for _, alert := range report.Alerts {
		record := alert.Item.Record()
		entries = append(entries, models.AlertEntry{
			ItemCode: alert.Item.ItemCode,
			ItemName: alert.Item.Name(),
			Quantity: record.CurrentQuantity,
			Unit:     record.Unit,
			Level:    string(alert.Level),
			Message:  alert.Message,
		})
	}

	return models.AlertSnapshot{
		ID:       uuid.NewString(),
		TakenAt:  takenAt.UTC(),
		Source:   source,
		Critical: report.Counts[stockstatus.AlertCritical],
		Urgent:   report.Counts[stockstatus.AlertUrgent],
		Warning:  report.Counts[stockstatus.AlertWarning],
		Total:    report.Total,
		Alerts:   entries,
	}
}

// FormatDigest renders the alert report as a plain-text message with at most
// maxLines item lines, most severe first.
func FormatDigest(report stock.AlertReport, at time.Time, maxLines int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "InvMIS stock alerts (%s)\n", at.Format(digestTimeLayout))
	if report.Total == 0 {
		b.WriteString("All items are above alert thresholds.")
		return b.String()
	}

	fmt.Fprintf(&b, "Critical: %d | Urgent: %d | Warning: %d\n",
		report.Counts[stockstatus.AlertCritical],
		report.Counts[stockstatus.AlertUrgent],
		report.Counts[stockstatus.AlertWarning])

	for i, alert := range report.Alerts {
		if i == maxLines {
			fmt.Fprintf(&b, "\n...and %d more", len(report.Alerts)-maxLines)
			break
		}
		fmt.Fprintf(&b, "\n[%s] %s %s: %s", strings.ToUpper(string(alert.Level)), alert.Item.ItemCode, alert.Item.Name(), alert.Message)
	}

	return b.String()
}
