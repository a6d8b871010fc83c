package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"cultivation_monitor/internal/models"
)

// ErrResourceNotFound is returned for reads on an untracked resource.
var ErrResourceNotFound = errors.New("resource not found")

// QuantitySample is a point-in-time quantity observation used by the
// consumption-rate fit. Replenish marks samples taken right after a positive
// delta so the fit can reset its baseline.
type QuantitySample struct {
	Timestamp time.Time
	Quantity  float64
	Replenish bool
}

// InventoryStore owns tracked resources: current quantity, the replenishment
// history, quantity samples for forecasting, and the latest forecast.
type InventoryStore struct {
	mu    sync.RWMutex
	items map[string]*inventoryEntry
}

type inventoryEntry struct {
	mu       sync.RWMutex
	item     models.InventoryItem
	samples  []QuantitySample
	forecast *models.Forecast
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{items: make(map[string]*inventoryEntry)}
}

// Seed registers resources with their starting quantities.
func (s *InventoryStore) Seed(items []models.InventoryItem, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ResourceID] = &inventoryEntry{
			item:    it,
			samples: []QuantitySample{{Timestamp: now, Quantity: it.Quantity}},
		}
	}
}

// RecordReplenishment applies a positive delta and records it in the
// replenishment history.
func (s *InventoryStore) RecordReplenishment(resourceID string, qty float64, ts time.Time) error {
	e := s.find(resourceID)
	if e == nil {
		return ErrResourceNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.item.Quantity += qty
	e.item.Replenishments = append(e.item.Replenishments, models.ReplenishEvent{Timestamp: ts, Delta: qty})
	e.samples = append(e.samples, QuantitySample{Timestamp: ts, Quantity: e.item.Quantity, Replenish: true})
	return nil
}

// RecordUsage applies a consumption delta. Quantity is clamped at zero; the
// returned flag tells the caller a discrepancy must be logged.
func (s *InventoryStore) RecordUsage(resourceID string, qty float64, ts time.Time) (clamped bool, err error) {
	e := s.find(resourceID)
	if e == nil {
		return false, ErrResourceNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.item.Quantity - qty
	if next < 0 {
		next = 0
		clamped = true
	}
	e.item.Quantity = next
	e.samples = append(e.samples, QuantitySample{Timestamp: ts, Quantity: next})
	return clamped, nil
}

// Samples returns a copy of the quantity samples at or after since.
func (s *InventoryStore) Samples(resourceID string, since time.Time) ([]QuantitySample, error) {
	e := s.find(resourceID)
	if e == nil {
		return nil, ErrResourceNotFound
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]QuantitySample, 0, len(e.samples))
	for _, smp := range e.samples {
		if !smp.Timestamp.Before(since) {
			out = append(out, smp)
		}
	}
	return out, nil
}

// Quantity returns the current quantity of a resource.
func (s *InventoryStore) Quantity(resourceID string) (float64, error) {
	e := s.find(resourceID)
	if e == nil {
		return 0, ErrResourceNotFound
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.item.Quantity, nil
}

// SetForecast swaps in the latest derived forecast.
func (s *InventoryStore) SetForecast(resourceID string, f models.Forecast) error {
	e := s.find(resourceID)
	if e == nil {
		return ErrResourceNotFound
	}
	e.mu.Lock()
	e.forecast = &f
	e.mu.Unlock()
	return nil
}

// Forecast returns the latest forecast. A tracked resource with no computed
// forecast yet yields a zero-rate forecast with nil depletion, which is a
// valid reportable state, not an error.
func (s *InventoryStore) Forecast(resourceID string) (models.Forecast, error) {
	e := s.find(resourceID)
	if e == nil {
		return models.Forecast{}, ErrResourceNotFound
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.forecast == nil {
		return models.Forecast{ResourceID: resourceID}, nil
	}
	f := *e.forecast
	if e.forecast.EstimatedDepletion != nil {
		t := *e.forecast.EstimatedDepletion
		f.EstimatedDepletion = &t
	}
	return f, nil
}

// Resources lists tracked resource IDs in stable order.
func (s *InventoryStore) Resources() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (s *InventoryStore) find(resourceID string) *inventoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[resourceID]
}
