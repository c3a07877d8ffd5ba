package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/config"
	"github.com/mamadbah2/invmis/internal/metrics"
	"github.com/mamadbah2/invmis/internal/repository/mongodb"
	"github.com/mamadbah2/invmis/internal/repository/sheets"
	"github.com/mamadbah2/invmis/internal/scheduler"
	"github.com/mamadbah2/invmis/internal/server/handlers"
	"github.com/mamadbah2/invmis/internal/server/router"
	commandsvc "github.com/mamadbah2/invmis/internal/service/commands"
	reportingsvc "github.com/mamadbah2/invmis/internal/service/reporting"
	stocksvc "github.com/mamadbah2/invmis/internal/service/stock"
	whatsappsvc "github.com/mamadbah2/invmis/internal/service/whatsapp"
	inventoryclient "github.com/mamadbah2/invmis/pkg/clients/inventory"
	whatsappclient "github.com/mamadbah2/invmis/pkg/clients/whatsapp"
	"github.com/mamadbah2/invmis/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := time.LoadLocation(cfg.Alerts.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	collector := metrics.NewCollector()

	var (
		source         stocksvc.Source
		stores         []reportingsvc.SnapshotStore
		snapshotReader handlers.SnapshotReader
	)

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		stockSheet := sheets.NewStockSheet(sheetsRepo, cfg.Sheets.StockRange, cfg.Sheets.AlertLogRange, baseLogger.Named("repo.sheets.stock"))
		if cfg.Sheets.AlertLogRange != "" {
			stores = append(stores, stockSheet)
		}
		if cfg.Inventory.Source == config.SourceSheets {
			source = stockSheet
		}
	}

	if cfg.Inventory.Source == config.SourceAPI {
		source = inventoryclient.NewClient(cfg.Inventory)
	}

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		stores = append(stores, mongoRepo)
		snapshotReader = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, alert snapshot history disabled")
	}

	stockSvc := stocksvc.NewService(source, cfg.Classifier.Policy, collector, baseLogger.Named("svc.stock"))

	var (
		notifier       reportingsvc.Notifier
		webhookHandler *handlers.WebhookHandler
	)
	if cfg.WhatsApp.Enabled() {
		waClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier = waClient
		baseLogger.Info("whatsapp alert delivery enabled")

		if cfg.WhatsApp.WebhookEnabled() {
			dispatcher := commandsvc.NewService(stockSvc, cfg.Alerts.DigestMaxLines, location, baseLogger.Named("svc.commands"))
			messaging := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, waClient, dispatcher, baseLogger.Named("svc.whatsapp"))
			webhookHandler = handlers.NewWebhookHandler(messaging, baseLogger.Named("handlers.webhook"))
		}
	} else {
		baseLogger.Warn("whatsapp credentials missing, alert digests will not be delivered")
	}

	reportingSvc := reportingsvc.NewService(stockSvc, reportingsvc.Options{
		Source:   cfg.Inventory.Source,
		Stores:   stores,
		Notifier: notifier,
		NotifyTo: cfg.Alerts.NotifyTo,
		MaxLines: cfg.Alerts.DigestMaxLines,
		Observer: collector,
		Location: location,
	}, baseLogger.Named("svc.reporting"))

	stockHandler := handlers.NewStockHandler(stockSvc, reportingSvc, snapshotReader, baseLogger.Named("handlers.stock"))
	engine := router.New(stockHandler, webhookHandler, collector.Handler(), baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Alerts, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("inventory_source", cfg.Inventory.Source),
			zap.String("low_stock_threshold", string(cfg.Classifier.Policy.Threshold)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
