package service

import (
	"context"
	"time"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/metrics"
	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/store"
)

// SchedulerService drives the periodic half of the core: health aggregation +
// alert evaluation on the aggregate tick, inventory forecasting + low-stock
// evaluation on the slower forecast tick. Stop via context cancellation from
// main() for graceful shutdown; derived state is swapped atomically so an
// aborted cycle never leaves a zone half-written.
type SchedulerService struct {
	zones     *store.ZoneStore
	health    HealthConfig
	ranges    map[models.Metric]RangeConfig
	alerts    *AlertService
	inventory *InventoryService
	log       *logger.Logger
}

func NewSchedulerService(zones *store.ZoneStore, health HealthConfig, ranges map[models.Metric]RangeConfig, alerts *AlertService, inventory *InventoryService, log *logger.Logger) *SchedulerService {
	return &SchedulerService{
		zones:     zones,
		health:    health,
		ranges:    ranges,
		alerts:    alerts,
		inventory: inventory,
		log:       log,
	}
}

// Run ticks until ctx is canceled.
func (s *SchedulerService) Run(ctx context.Context, aggregateTick, forecastTick time.Duration) {
	agg := time.NewTicker(aggregateTick)
	fc := time.NewTicker(forecastTick)
	defer agg.Stop()
	defer fc.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-agg.C:
			s.RunAggregation(ctx, now.UTC())
		case now := <-fc.C:
			s.RunForecasts(ctx, now.UTC())
		}
	}
}

// RunAggregation executes one health evaluation cycle. Zones appended to
// since the last cycle get their score recomputed; every zone, fresh data or
// not, feeds one dwell cycle into the alert engine. A failure in one zone
// never aborts evaluation of the others.
func (s *SchedulerService) RunAggregation(ctx context.Context, now time.Time) {
	dirty := make(map[string]struct{})
	for _, id := range s.zones.DirtyZones() {
		dirty[id] = struct{}{}
	}

	for _, zoneID := range s.zones.Zones() {
		if err := s.evaluateZone(ctx, zoneID, dirty, now); err != nil {
			if s.log != nil {
				s.log.Errorw("zone_evaluation_failed", "zone", zoneID, "err", err)
			}
		}
	}
	metrics.AggregationCycles.Inc()
}

func (s *SchedulerService) evaluateZone(ctx context.Context, zoneID string, dirty map[string]struct{}, now time.Time) error {
	snap, err := s.zones.Snapshot(zoneID)
	if err != nil {
		return err
	}

	level := snap.HealthLevel
	_, isDirty := dirty[zoneID]
	// classification evidence decays with wall time, so zones carrying any of
	// it need a recompute even without fresh appends
	if isDirty || hasClassificationEvidence(snap.Window) {
		score, lvl := ComputeHealth(snap.Window, s.ranges, s.health, now)
		if err := s.zones.SetHealth(zoneID, score, lvl, now); err != nil {
			return err
		}
		level = lvl
	}

	degraded := level != models.HealthHealthy
	severity := models.SeverityWarning
	if level == models.HealthCritical {
		severity = models.SeverityCritical
	}
	s.alerts.Observe(ctx, zoneID, models.AlertHealthDegradation, degraded, severity, now)
	return nil
}

// RunForecasts executes one inventory forecast pass and feeds low-stock dwell
// cycles into the alert engine.
func (s *SchedulerService) RunForecasts(ctx context.Context, now time.Time) {
	s.inventory.Recompute(ctx, now)
	for _, id := range s.inventory.Resources() {
		low, severity := s.inventory.LowStock(id, now)
		s.alerts.Observe(ctx, id, models.AlertLowStock, low, severity, now)
	}
	metrics.ForecastRuns.Inc()
}

func hasClassificationEvidence(window []models.NormalizedEvent) bool {
	for _, ev := range window {
		if ev.Valid && ev.Kind == models.EventClassification {
			return true
		}
	}
	return false
}
