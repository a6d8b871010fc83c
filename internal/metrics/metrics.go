package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the fusion pipeline, exported at /metrics.
var (
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivation_events_ingested_total",
		Help: "Normalized events appended to zone windows",
	}, []string{"kind"})

	InvalidEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cultivation_invalid_events_total",
		Help: "Events that failed range or confidence validation",
	}, []string{"kind"})

	DroppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cultivation_dropped_events_total",
		Help: "Raw events dropped because the ingest buffer was full",
	})

	AggregationCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cultivation_aggregation_cycles_total",
		Help: "Completed health aggregation cycles",
	})

	ForecastRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cultivation_forecast_runs_total",
		Help: "Completed inventory forecast passes",
	})

	OpenAlerts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cultivation_open_alerts",
		Help: "Currently open alerts by kind",
	}, []string{"kind"})

	ProviderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cultivation_provider_failures_total",
		Help: "Classification provider failures (cycle skipped)",
	})
)
