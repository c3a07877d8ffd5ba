package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
)

// Scan outcomes used as the result label.
const (
	ScanSucceeded = "success"
	ScanFailed    = "failure"
)

// Collector owns the service registry and the stock gauges.
type Collector struct {
	registry     *prometheus.Registry
	alerts       *prometheus.GaugeVec
	levels       *prometheus.GaugeVec
	scans        *prometheus.CounterVec
	scanDuration prometheus.Histogram
}

// NewCollector registers the stock metrics on a fresh registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		alerts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "invmis_stock_alerts",
				Help: "Items per alert tier at the last classification",
			},
			[]string{"level"},
		),
		levels: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "invmis_stock_levels",
				Help: "Items per stock-level status at the last classification",
			},
			[]string{"status"},
		),
		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invmis_alert_scans_total",
				Help: "Alert scans run, by result",
			},
			[]string{"result"},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invmis_alert_scan_duration_seconds",
				Help:    "Duration of alert scans",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		c.alerts,
		c.levels,
		c.scans,
		c.scanDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveAlerts replaces the alert gauges with the given counts.
func (c *Collector) ObserveAlerts(counts map[stockstatus.AlertLevel]int) {
	if c == nil {
		return
	}
	for _, level := range stockstatus.AlertLevels {
		c.alerts.WithLabelValues(string(level)).Set(float64(counts[level]))
	}
}

// ObserveLevels replaces the stock-level gauges with the given counts.
func (c *Collector) ObserveLevels(counts map[stockstatus.StockStatus]int) {
	if c == nil {
		return
	}
	for _, status := range stockstatus.StockStatuses {
		c.levels.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

// ObserveScan records one scan outcome.
func (c *Collector) ObserveScan(result string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.scans.WithLabelValues(result).Inc()
	c.scanDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
