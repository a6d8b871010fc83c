package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"cultivation_monitor/internal/models"
)

// ErrZoneNotFound is returned by Snapshot for a zone that never received data.
var ErrZoneNotFound = errors.New("zone not found")

const defaultWindowCapacity = 256

// ZoneStore owns every ZoneState. All mutation of a given zone's window and
// derived state goes through its per-zone lock, so writes to different zones
// never contend while a single zone is serialized.
type ZoneStore struct {
	capacity int

	mu    sync.RWMutex // guards the zones map itself
	zones map[string]*zoneEntry

	dirtyMu sync.Mutex
	dirty   map[string]struct{}
}

type zoneEntry struct {
	mu    sync.RWMutex
	state models.ZoneState
}

// NewZoneStore creates a store with the given window capacity per zone
// (defaulted when capacity <= 0).
func NewZoneStore(capacity int) *ZoneStore {
	if capacity <= 0 {
		capacity = defaultWindowCapacity
	}
	return &ZoneStore{
		capacity: capacity,
		zones:    make(map[string]*zoneEntry),
		dirty:    make(map[string]struct{}),
	}
}

// Append inserts ev into the zone's bounded window, evicting the oldest event
// when full, and marks the zone dirty for the next aggregation cycle. Unknown
// zones are registered lazily with the optimistic healthy default.
func (s *ZoneStore) Append(zoneID string, ev models.NormalizedEvent) {
	e := s.entry(zoneID, true)

	e.mu.Lock()
	if len(e.state.Window) >= s.capacity {
		// FIFO eviction; copy down to keep the backing array bounded
		copy(e.state.Window, e.state.Window[1:])
		e.state.Window[len(e.state.Window)-1] = ev
	} else {
		e.state.Window = append(e.state.Window, ev)
	}
	e.state.LastUpdated = ev.Timestamp
	e.mu.Unlock()

	s.dirtyMu.Lock()
	s.dirty[zoneID] = struct{}{}
	s.dirtyMu.Unlock()
}

// Snapshot returns a deep copy of the zone's state, so readers never observe
// a torn window while another goroutine appends.
func (s *ZoneStore) Snapshot(zoneID string) (models.ZoneState, error) {
	e := s.entry(zoneID, false)
	if e == nil {
		return models.ZoneState{}, ErrZoneNotFound
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := e.state
	snap.Window = make([]models.NormalizedEvent, len(e.state.Window))
	copy(snap.Window, e.state.Window)
	return snap, nil
}

// SetHealth atomically swaps the derived health score and level of a zone.
func (s *ZoneStore) SetHealth(zoneID string, score float64, level models.HealthLevel, at time.Time) error {
	e := s.entry(zoneID, false)
	if e == nil {
		return ErrZoneNotFound
	}

	e.mu.Lock()
	e.state.HealthScore = score
	e.state.HealthLevel = level
	e.state.LastUpdated = at
	e.mu.Unlock()
	return nil
}

// Zones lists every registered zone ID in stable order.
func (s *ZoneStore) Zones() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.zones))
	for id := range s.zones {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// DirtyZones drains and returns the set of zones appended to since the last
// aggregation cycle.
func (s *ZoneStore) DirtyZones() []string {
	s.dirtyMu.Lock()
	defer s.dirtyMu.Unlock()

	ids := make([]string, 0, len(s.dirty))
	for id := range s.dirty {
		ids = append(ids, id)
	}
	s.dirty = make(map[string]struct{})
	sort.Strings(ids)
	return ids
}

// entry fetches the zone entry, creating it when create is set.
func (s *ZoneStore) entry(zoneID string, create bool) *zoneEntry {
	s.mu.RLock()
	e := s.zones[zoneID]
	s.mu.RUnlock()
	if e != nil || !create {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.zones[zoneID]; e == nil {
		e = &zoneEntry{
			state: models.ZoneState{
				ZoneID: zoneID,
				Window: make([]models.NormalizedEvent, 0, s.capacity),
				// new zones report healthy until evidence exists
				HealthScore: 1.0,
				HealthLevel: models.HealthHealthy,
			},
		}
		s.zones[zoneID] = e
	}
	return e
}
