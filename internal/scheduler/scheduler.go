package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/invmis/internal/config"
	"github.com/mamadbah2/invmis/internal/domain/models"
)

const scanTimeout = 2 * time.Minute

// AlertScanner runs one alert scan.
type AlertScanner interface {
	RunAlertScan(ctx context.Context) (models.AlertSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	scanner  AlertScanner
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler that runs alert scans in the configured
// timezone.
func NewScheduler(cfg config.AlertsConfig, scanner AlertScanner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		scanner:  scanner,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the alert scan and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runAlertScan); err != nil {
		return fmt.Errorf("schedule alert scan %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runAlertScan() {
	s.logger.Info("running scheduled alert scan")
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	snapshot, err := s.scanner.RunAlertScan(ctx)
	if err != nil {
		s.logger.Error("scheduled alert scan failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled alert scan finished", zap.Int("alerts", snapshot.Total))
}
