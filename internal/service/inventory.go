package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/repository"
	"cultivation_monitor/internal/store"
)

// ErrResourceNotFound mirrors the store sentinel at the service boundary.
var ErrResourceNotFound = store.ErrResourceNotFound

// InventoryService tracks resource levels, records replenishments and usage,
// and recomputes depletion forecasts on the forecast cadence.
type InventoryService struct {
	items *store.InventoryStore
	cfg   InventoryConfig
	audit repository.ReplenishmentAudit // optional; nil means in-memory only
	log   *logger.Logger
}

func NewInventoryService(items *store.InventoryStore, cfg InventoryConfig, audit repository.ReplenishmentAudit, log *logger.Logger) *InventoryService {
	return &InventoryService{items: items, cfg: cfg, audit: audit, log: log}
}

// RecordReplenishment applies a positive stock delta and audits it.
func (s *InventoryService) RecordReplenishment(ctx context.Context, resourceID string, qty float64, ts time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("replenishment quantity must be positive, got %v", qty)
	}
	ts = normalizeTimestamp(ts)

	if err := s.items.RecordReplenishment(resourceID, qty, ts); err != nil {
		return err
	}
	if s.audit != nil {
		if err := s.audit.Append(ctx, resourceID, models.ReplenishEvent{Timestamp: ts, Delta: qty}); err != nil && s.log != nil {
			s.log.Errorw("replenishment_audit_append_failed", "err", err, "resource", resourceID)
		}
	}
	return nil
}

// RecordUsage applies a consumption delta. Over-consumption is clamped at
// zero and logged as an error rather than silently dropped.
func (s *InventoryService) RecordUsage(ctx context.Context, resourceID string, qty float64, ts time.Time) error {
	if qty <= 0 {
		return fmt.Errorf("usage quantity must be positive, got %v", qty)
	}
	clamped, err := s.items.RecordUsage(resourceID, qty, normalizeTimestamp(ts))
	if err != nil {
		return err
	}
	if clamped && s.log != nil {
		s.log.Errorw("inventory_quantity_clamped",
			"resource", resourceID, "usage", qty,
			"detail", "consumption exceeded tracked stock; quantity clamped at zero")
	}
	return nil
}

// GetForecast returns the latest derived forecast for a resource.
func (s *InventoryService) GetForecast(ctx context.Context, resourceID string) (models.Forecast, error) {
	return s.items.Forecast(resourceID)
}

// Recompute refreshes every resource's forecast from the trailing sample
// window. Insufficient data yields a nil depletion estimate, never an error.
// One resource failing never aborts the others.
func (s *InventoryService) Recompute(ctx context.Context, now time.Time) {
	for _, id := range s.items.Resources() {
		f, err := s.forecastResource(id, now)
		if err != nil {
			if s.log != nil {
				s.log.Errorw("forecast_failed", "resource", id, "err", err)
			}
			continue
		}
		if err := s.items.SetForecast(id, f); err != nil && s.log != nil {
			s.log.Errorw("forecast_store_failed", "resource", id, "err", err)
		}
	}
}

// LowStock reports whether a resource's projected depletion falls inside the
// configured lead time, along with a severity for the alert engine.
func (s *InventoryService) LowStock(resourceID string, now time.Time) (bool, models.AlertSeverity) {
	f, err := s.items.Forecast(resourceID)
	if err != nil || f.EstimatedDepletion == nil {
		return false, models.SeverityWarning
	}
	remaining := f.EstimatedDepletion.Sub(now)
	if remaining >= s.cfg.LeadTime {
		return false, models.SeverityWarning
	}
	if remaining < s.cfg.LeadTime/4 {
		return true, models.SeverityCritical
	}
	return true, models.SeverityWarning
}

// Resources exposes tracked resource IDs.
func (s *InventoryService) Resources() []string {
	return s.items.Resources()
}

func (s *InventoryService) forecastResource(resourceID string, now time.Time) (models.Forecast, error) {
	samples, err := s.items.Samples(resourceID, now.Add(-s.cfg.FitWindow))
	if err != nil {
		return models.Forecast{}, err
	}
	qty, err := s.items.Quantity(resourceID)
	if err != nil {
		return models.Forecast{}, err
	}

	rate := consumptionRatePerHour(samples)
	f := models.Forecast{
		ResourceID:         resourceID,
		ConsumptionPerHour: rate,
		ComputedAt:         now,
	}
	if rate > 0 {
		hoursLeft := qty / rate
		t := now.Add(time.Duration(hoursLeft * float64(time.Hour)))
		f.EstimatedDepletion = &t
	}
	return f, nil
}

// consumptionRatePerHour fits quantity-over-time on the samples after the
// most recent replenishment (a replenishment resets the fit baseline, and its
// positive jump must not pollute the depletion slope). Least squares with two
// or more points, simple rate-of-change otherwise; non-positive consumption
// yields 0 (no forecast).
func consumptionRatePerHour(samples []store.QuantitySample) float64 {
	// keep only the segment after the last replenishment
	start := 0
	for i, smp := range samples {
		if smp.Replenish {
			start = i
		}
	}
	seg := samples[start:]
	if len(seg) < 2 {
		return 0
	}

	if len(seg) == 2 {
		return rateOfChange(seg[0], seg[1])
	}

	slope, err := leastSquaresSlope(seg)
	if err != nil {
		return rateOfChange(seg[0], seg[len(seg)-1])
	}
	if slope >= 0 {
		return 0
	}
	return -slope
}

// rateOfChange is the fallback fit for a two-point segment: units per hour,
// positive when quantity is falling.
func rateOfChange(a, b store.QuantitySample) float64 {
	hrs := b.Timestamp.Sub(a.Timestamp).Hours()
	if hrs <= 0 {
		return 0
	}
	drop := a.Quantity - b.Quantity
	if drop <= 0 {
		return 0
	}
	return drop / hrs
}

var errDegenerateFit = errors.New("degenerate time spread in fit segment")

// leastSquaresSlope fits quantity = a + slope*hours over the segment.
func leastSquaresSlope(seg []store.QuantitySample) (float64, error) {
	t0 := seg[0].Timestamp
	var sumX, sumY, sumXX, sumXY float64
	for _, smp := range seg {
		x := smp.Timestamp.Sub(t0).Hours()
		y := smp.Quantity
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	n := float64(len(seg))
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, errDegenerateFit
	}
	return (n*sumXY - sumX*sumY) / denom, nil
}
