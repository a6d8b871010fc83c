package store

import (
	"errors"
	"testing"
	"time"

	"cultivation_monitor/internal/models"
)

func seededInventory(t *testing.T, qty float64, at time.Time) *InventoryStore {
	t.Helper()
	s := NewInventoryStore()
	s.Seed([]models.InventoryItem{{ResourceID: "water", Unit: "liters", Quantity: qty}}, at)
	return s
}

func TestInventoryStore_UnknownResource(t *testing.T) {
	t.Parallel()

	s := NewInventoryStore()
	if _, err := s.Forecast("ghost"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("Forecast: expected ErrResourceNotFound, got %v", err)
	}
	if err := s.RecordReplenishment("ghost", 1, time.Now()); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("RecordReplenishment: expected ErrResourceNotFound, got %v", err)
	}
	if _, err := s.RecordUsage("ghost", 1, time.Now()); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("RecordUsage: expected ErrResourceNotFound, got %v", err)
	}
}

func TestInventoryStore_UsageClampsAtZero(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := seededInventory(t, 10, now)

	clamped, err := s.RecordUsage("water", 4, now.Add(time.Hour))
	if err != nil || clamped {
		t.Fatalf("normal usage: clamped=%v err=%v", clamped, err)
	}

	clamped, err = s.RecordUsage("water", 100, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("over-usage: %v", err)
	}
	if !clamped {
		t.Fatalf("expected clamp flag on over-consumption")
	}
	qty, _ := s.Quantity("water")
	if qty != 0 {
		t.Fatalf("quantity: want 0, got %v", qty)
	}
}

func TestInventoryStore_ReplenishmentHistoryAndSamples(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := seededInventory(t, 50, now)

	if err := s.RecordReplenishment("water", 100, now.Add(time.Hour)); err != nil {
		t.Fatalf("replenish: %v", err)
	}
	if _, err := s.RecordUsage("water", 10, now.Add(2*time.Hour)); err != nil {
		t.Fatalf("usage: %v", err)
	}

	qty, _ := s.Quantity("water")
	if qty != 140 {
		t.Fatalf("quantity: want 140, got %v", qty)
	}

	samples, err := s.Samples("water", now)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("samples: want 3, got %d", len(samples))
	}
	if !samples[1].Replenish {
		t.Errorf("second sample should be flagged as replenishment")
	}
	if samples[2].Replenish {
		t.Errorf("usage sample must not be flagged as replenishment")
	}

	// windowed read drops the seed sample
	windowed, _ := s.Samples("water", now.Add(30*time.Minute))
	if len(windowed) != 2 {
		t.Fatalf("windowed samples: want 2, got %d", len(windowed))
	}
}

func TestInventoryStore_ForecastRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := seededInventory(t, 50, now)

	// no forecast computed yet: valid empty state, not an error
	f, err := s.Forecast("water")
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if f.EstimatedDepletion != nil || f.ConsumptionPerHour != 0 {
		t.Fatalf("expected empty forecast, got %+v", f)
	}

	depletion := now.Add(240 * time.Hour)
	if err := s.SetForecast("water", models.Forecast{
		ResourceID:         "water",
		EstimatedDepletion: &depletion,
		ConsumptionPerHour: 0.2,
		ComputedAt:         now,
	}); err != nil {
		t.Fatalf("set forecast: %v", err)
	}

	f, _ = s.Forecast("water")
	if f.EstimatedDepletion == nil || !f.EstimatedDepletion.Equal(depletion) {
		t.Fatalf("unexpected depletion: %+v", f)
	}

	// returned forecast must be a copy
	*f.EstimatedDepletion = now
	again, _ := s.Forecast("water")
	if !again.EstimatedDepletion.Equal(depletion) {
		t.Fatalf("mutating a returned forecast leaked into the store")
	}
}
