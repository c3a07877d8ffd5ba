package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invmis/internal/config"
	"github.com/mamadbah2/invmis/internal/domain/models"
)

type countingScanner struct {
	calls    atomic.Int32
	err      error
	deadline bool
}

func (c *countingScanner) RunAlertScan(ctx context.Context) (models.AlertSnapshot, error) {
	c.calls.Add(1)
	_, c.deadline = ctx.Deadline()
	return models.AlertSnapshot{Total: 2}, c.err
}

func TestNewScheduler_RejectsUnknownTimezone(t *testing.T) {
	_, err := NewScheduler(config.AlertsConfig{CronSchedule: "0 8 * * *", Timezone: "Nowhere/Land"}, &countingScanner{}, nil)
	assert.Error(t, err)
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s, err := NewScheduler(config.AlertsConfig{CronSchedule: "every morning", Timezone: "UTC"}, &countingScanner{}, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(config.AlertsConfig{CronSchedule: "0 8 * * *", Timezone: "UTC"}, &countingScanner{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}

func TestRunAlertScan_UsesTimeout(t *testing.T) {
	scanner := &countingScanner{}
	s, err := NewScheduler(config.AlertsConfig{CronSchedule: "0 8 * * *", Timezone: "UTC"}, scanner, nil)
	require.NoError(t, err)

	s.runAlertScan()
	assert.Equal(t, int32(1), scanner.calls.Load())
	assert.True(t, scanner.deadline)
}

func TestRunAlertScan_ErrorIsLoggedNotPanicked(t *testing.T) {
	scanner := &countingScanner{err: errors.New("backend unavailable")}
	s, err := NewScheduler(config.AlertsConfig{CronSchedule: "@every 1h", Timezone: "UTC"}, scanner, nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.runAlertScan)
}

func TestScheduledRunFires(t *testing.T) {
	scanner := &countingScanner{}
	s, err := NewScheduler(config.AlertsConfig{CronSchedule: "@every 1s", Timezone: "UTC"}, scanner, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return scanner.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
