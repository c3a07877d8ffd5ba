package sheets

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/domain/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// Stock sheet column order.
const (
	colItemCode = iota
	colItemName
	colCategory
	colUnit
	colCurrent
	colMinimum
	colReorder
	colMaximum
	colAvailable
	colReserved
)

// minStockColumns is the narrowest row that still carries a quantity.
const minStockColumns = colCurrent + 1

// StockSheet reads stock rows from a spreadsheet and appends scan results to
// an audit range.
type StockSheet struct {
	repo          Repository
	stockRange    string
	alertLogRange string
	logger        *zap.Logger
}

// NewStockSheet wraps a sheet repository.
func NewStockSheet(repo Repository, stockRange, alertLogRange string, logger *zap.Logger) *StockSheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockSheet{repo: repo, stockRange: stockRange, alertLogRange: alertLogRange, logger: logger}
}

// ListStock reads every item row. Rows without an item code are skipped, as
// is a first row whose quantity cell is not a number (the header, whatever
// its labels). Other non-numeric cells are treated as missing.
func (s *StockSheet) ListStock(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.repo.ReadRange(ctx, s.stockRange)
	if err != nil {
		return nil, fmt.Errorf("load stock range: %w", err)
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for idx, row := range rows {
		if len(row) < minStockColumns {
			continue
		}

		code := cellString(row, colItemCode)
		if code == "" {
			continue
		}

		current, ok := cellInt(row, colCurrent)
		if !ok && idx == 0 {
			continue
		}
		if !ok {
			s.logger.Debug("stock row has no usable quantity", zap.String("item_code", code), zap.Any("value", row[colCurrent]))
		}

		items = append(items, models.InventoryItem{
			ID:                code,
			ItemCode:          code,
			ItemName:          cellString(row, colItemName),
			CategoryName:      cellString(row, colCategory),
			Unit:              cellString(row, colUnit),
			CurrentQuantity:   current,
			MinimumStockLevel: optionalInt(row, colMinimum),
			ReorderPoint:      optionalInt(row, colReorder),
			MaximumStockLevel: optionalInt(row, colMaximum),
			AvailableQuantity: optionalInt(row, colAvailable),
			ReservedQuantity:  optionalInt(row, colReserved),
		})
	}

	return items, nil
}

// SaveSnapshot appends one audit row: timestamp, per-tier counts, total, source.
func (s *StockSheet) SaveSnapshot(ctx context.Context, snapshot models.AlertSnapshot) error {
	values := []interface{}{
		snapshot.TakenAt.UTC().Format(timestampLayout),
		snapshot.Critical,
		snapshot.Urgent,
		snapshot.Warning,
		snapshot.Total,
		snapshot.Source,
	}
	if err := s.repo.WriteRow(ctx, s.alertLogRange, values); err != nil {
		return fmt.Errorf("append alert log: %w", err)
	}
	return nil
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

// cellInt parses whole numbers from the forms the Sheets API returns:
// float64 for unformatted numbers, strings for text cells.
func cellInt(row []interface{}, idx int) (*int, bool) {
	if idx >= len(row) || row[idx] == nil {
		return nil, false
	}

	switch v := row[idx].(type) {
	case float64:
		n := int(math.Round(v))
		return &n, true
	case int:
		return &v, true
	}

	str := strings.ReplaceAll(cellString(row, idx), ",", "")
	if str == "" {
		return nil, false
	}
	if n, err := strconv.Atoi(str); err == nil {
		return &n, true
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		n := int(math.Round(f))
		return &n, true
	}
	return nil, false
}

func optionalInt(row []interface{}, idx int) *int {
	v, _ := cellInt(row, idx)
	return v
}
