package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/domain/models"
	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
	"github.com/mamadbah2/invmis/internal/service/reporting"
	"github.com/mamadbah2/invmis/internal/service/stock"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

const helpText = `Stock queries:
alerts [critical|urgent|warning] - items at or below 10 units
levels [out|low|in-stock|overstock] - counts per stock level
status <item code> - level and alert for one item`

// StockQuerier defines the stock operations required by the dispatcher.
type StockQuerier interface {
	Alerts(ctx context.Context, filter stock.AlertFilter) (stock.AlertReport, error)
	Levels(ctx context.Context, filter stock.LevelFilter) (stock.LevelReport, error)
}

// Dispatcher answers parsed chat commands with a text reply.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	stock    StockQuerier
	maxLines int
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs a command dispatcher. Replies list at most maxLines
// items and print times in location.
func NewService(querier StockQuerier, maxLines int, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLines <= 0 {
		maxLines = 20
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		stock:    querier,
		maxLines: maxLines,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleCommand runs the query named by cmd and renders the reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandAlerts:
		return s.alerts(ctx, cmd.Args)
	case models.CommandLevels:
		return s.levels(ctx, cmd.Args)
	case models.CommandStatus:
		return s.status(ctx, cmd.Args)
	case models.CommandHelp:
		return helpText, nil
	default:
		return "Unknown command.\n" + helpText, nil
	}
}

func (s *Service) alerts(ctx context.Context, args []string) (string, error) {
	var filter stock.AlertFilter
	if len(args) > 0 && !strings.EqualFold(args[0], "all") {
		level, err := stockstatus.ParseAlertLevel(args[0])
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		filter.Level = level
	}

	report, err := s.stock.Alerts(ctx, filter)
	if err != nil {
		return "", err
	}

	message := reporting.FormatDigest(report, s.now().In(s.location), s.maxLines)
	if filter.Level != "" && len(report.Alerts) == 0 && report.Total > 0 {
		message += fmt.Sprintf("\n\nNo %s alerts.", filter.Level)
	}
	return message, nil
}

func (s *Service) levels(ctx context.Context, args []string) (string, error) {
	var filter stock.LevelFilter
	if len(args) > 0 && !strings.EqualFold(args[0], "all") {
		status, err := stockstatus.ParseStockStatus(strings.Join(args, " "))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		filter.Status = status
	}

	report, err := s.stock.Levels(ctx, filter)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock levels (threshold: %s)\n", report.Policy.Threshold)
	for i, status := range stockstatus.StockStatuses {
		if i > 0 {
			b.WriteString(" | ")
		}
		fmt.Fprintf(&b, "%s: %d", status, report.Counts[status])
	}

	if filter.Status == "" {
		return b.String(), nil
	}

	fmt.Fprintf(&b, "\n\n%s:", filter.Status)
	if len(report.Items) == 0 {
		b.WriteString(" none")
	}
	for i, item := range report.Items {
		if i == s.maxLines {
			fmt.Fprintf(&b, "\n...and %d more", len(report.Items)-s.maxLines)
			break
		}
		record := item.Item.Record()
		fmt.Fprintf(&b, "\n%s %s: %d %s", item.Item.ItemCode, item.Item.Name(), record.CurrentQuantity, record.Unit)
	}
	return b.String(), nil
}

func (s *Service) status(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: status needs an item code", ErrInvalidArguments)
	}
	code := args[0]

	report, err := s.stock.Levels(ctx, stock.LevelFilter{Search: code})
	if err != nil {
		return "", err
	}

	for _, item := range report.Items {
		if !strings.EqualFold(item.Item.ItemCode, code) {
			continue
		}

		record := item.Item.Record()
		level, message := stockstatus.ClassifyAlert(record.CurrentQuantity, record.Unit)

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", item.Item.ItemCode, item.Item.Name())
		if item.Item.CategoryName != "" {
			fmt.Fprintf(&b, " (%s)", item.Item.CategoryName)
		}
		fmt.Fprintf(&b, "\nQuantity: %d %s\nStatus: %s", record.CurrentQuantity, record.Unit, item.Status)
		if level != stockstatus.AlertNone {
			fmt.Fprintf(&b, "\nAlert: %s - %s", level, message)
		}
		return b.String(), nil
	}

	return fmt.Sprintf("No item with code %s.", code), nil
}
