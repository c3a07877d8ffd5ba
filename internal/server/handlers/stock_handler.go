package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/domain/models"
	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
	"github.com/mamadbah2/invmis/internal/repository/mongodb"
	"github.com/mamadbah2/invmis/internal/service/stock"
)

// StockService describes the classification operations the HTTP layer uses.
type StockService interface {
	Alerts(ctx context.Context, filter stock.AlertFilter) (stock.AlertReport, error)
	Levels(ctx context.Context, filter stock.LevelFilter) (stock.LevelReport, error)
	Classify(record models.StockRecord, policy *stockstatus.LevelPolicy) (stock.Classification, error)
}

// AlertScanner triggers an on-demand alert scan.
type AlertScanner interface {
	RunAlertScan(ctx context.Context) (models.AlertSnapshot, error)
}

// SnapshotReader loads the latest recorded scan.
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) (models.AlertSnapshot, error)
}

// StockHandler serves stock status endpoints.
type StockHandler struct {
	svc       StockService
	scanner   AlertScanner
	snapshots SnapshotReader
	logger    *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter. snapshots may be nil
// when no snapshot store is configured.
func NewStockHandler(svc StockService, scanner AlertScanner, snapshots SnapshotReader, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, scanner: scanner, snapshots: snapshots, logger: logger}
}

// ClassifyRequest is the body of POST /api/stock/classify.
type ClassifyRequest struct {
	Record models.StockRecord       `json:"record"`
	Policy *stockstatus.LevelPolicy `json:"policy"`
}

// Alerts lists items in an alert tier, most severe first.
func (h *StockHandler) Alerts(c *gin.Context) {
	filter := stock.AlertFilter{Search: c.Query("search")}
	if value := c.Query("type"); value != "" && !strings.EqualFold(value, "all") {
		level, err := stockstatus.ParseAlertLevel(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Level = level
	}

	report, err := h.svc.Alerts(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed classifying alerts", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load inventory"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Levels lists every item with its stock-level status.
func (h *StockHandler) Levels(c *gin.Context) {
	filter := stock.LevelFilter{Search: c.Query("search")}
	if value := c.Query("status"); value != "" && !strings.EqualFold(value, "all") {
		status, err := stockstatus.ParseStockStatus(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = status
	}

	report, err := h.svc.Levels(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed classifying stock levels", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load inventory"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Classify runs both policies on a record supplied by the caller.
func (h *StockHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid classify payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Classify(req.Record, req.Policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// LatestSnapshot returns the newest recorded alert scan.
func (h *StockHandler) LatestSnapshot(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot history is not enabled"})
		return
	}

	snapshot, err := h.snapshots.LatestSnapshot(c.Request.Context())
	if errors.Is(err, mongodb.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no alert scan recorded yet"})
		return
	}
	if err != nil {
		h.logger.Error("failed loading latest snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load snapshot"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// Scan runs an alert scan immediately.
func (h *StockHandler) Scan(c *gin.Context) {
	snapshot, err := h.scanner.RunAlertScan(c.Request.Context())
	if err != nil {
		h.logger.Error("manual alert scan failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "alert scan failed", "snapshot": snapshot})
		return
	}

	c.JSON(http.StatusAccepted, snapshot)
}
