package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cultivation_monitor/internal/models"
)

func sensorEvent(zone string, v float64, ts time.Time) models.NormalizedEvent {
	return models.NormalizedEvent{
		Kind:      models.EventSensor,
		ZoneID:    zone,
		Metric:    models.MetricPH,
		Value:     v,
		Valid:     true,
		Timestamp: ts,
	}
}

func TestZoneStore_SnapshotUnknownZone(t *testing.T) {
	t.Parallel()

	s := NewZoneStore(4)
	if _, err := s.Snapshot("nope"); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestZoneStore_LazyRegistrationDefaults(t *testing.T) {
	t.Parallel()

	s := NewZoneStore(4)
	now := time.Now().UTC()
	s.Append("zone-a", sensorEvent("zone-a", 6.0, now))

	snap, err := s.Snapshot("zone-a")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.HealthScore != 1.0 {
		t.Errorf("new zone score: want 1.0, got %v", snap.HealthScore)
	}
	if snap.HealthLevel != models.HealthHealthy {
		t.Errorf("new zone level: want healthy, got %q", snap.HealthLevel)
	}
	if len(snap.Window) != 1 {
		t.Errorf("window length: want 1, got %d", len(snap.Window))
	}
}

func TestZoneStore_FIFOEviction(t *testing.T) {
	t.Parallel()

	const capacity = 3
	s := NewZoneStore(capacity)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		s.Append("zone-a", sensorEvent("zone-a", float64(i), now.Add(time.Duration(i)*time.Second)))
	}

	snap, err := s.Snapshot("zone-a")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Window) != capacity {
		t.Fatalf("window length: want %d, got %d", capacity, len(snap.Window))
	}
	// oldest two (values 0 and 1) must be gone
	for i, want := range []float64{2, 3, 4} {
		if snap.Window[i].Value != want {
			t.Errorf("window[%d]: want value %v, got %v", i, want, snap.Window[i].Value)
		}
	}
}

func TestZoneStore_SnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	s := NewZoneStore(4)
	now := time.Now().UTC()
	s.Append("zone-a", sensorEvent("zone-a", 6.0, now))

	snap, _ := s.Snapshot("zone-a")
	snap.Window[0].Value = 99

	again, _ := s.Snapshot("zone-a")
	if again.Window[0].Value != 6.0 {
		t.Fatalf("mutating a snapshot leaked into the store: %v", again.Window[0].Value)
	}
}

func TestZoneStore_SetHealthSwapsAtomically(t *testing.T) {
	t.Parallel()

	s := NewZoneStore(4)
	now := time.Now().UTC()
	s.Append("zone-a", sensorEvent("zone-a", 6.0, now))

	if err := s.SetHealth("zone-a", 0.35, models.HealthCritical, now); err != nil {
		t.Fatalf("set health: %v", err)
	}
	snap, _ := s.Snapshot("zone-a")
	if snap.HealthScore != 0.35 || snap.HealthLevel != models.HealthCritical {
		t.Fatalf("unexpected derived state: %+v", snap)
	}

	if err := s.SetHealth("missing", 0.5, models.HealthWarning, now); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestZoneStore_DirtyZonesDrain(t *testing.T) {
	t.Parallel()

	s := NewZoneStore(4)
	now := time.Now().UTC()
	s.Append("zone-b", sensorEvent("zone-b", 6.0, now))
	s.Append("zone-a", sensorEvent("zone-a", 6.0, now))
	s.Append("zone-a", sensorEvent("zone-a", 6.1, now))

	dirty := s.DirtyZones()
	if len(dirty) != 2 || dirty[0] != "zone-a" || dirty[1] != "zone-b" {
		t.Fatalf("unexpected dirty set: %v", dirty)
	}
	if again := s.DirtyZones(); len(again) != 0 {
		t.Fatalf("dirty set not drained: %v", again)
	}
}

// Concurrent appends to distinct zones must not lose updates: the final window
// size per zone is min(events sent, capacity).
func TestZoneStore_ConcurrentAppendsAcrossZones(t *testing.T) {
	t.Parallel()

	const (
		zones    = 8
		perZone  = 100
		capacity = 64
	)
	s := NewZoneStore(capacity)
	base := time.Now().UTC()

	var wg sync.WaitGroup
	for z := 0; z < zones; z++ {
		wg.Add(1)
		go func(z int) {
			defer wg.Done()
			zone := fmt.Sprintf("zone-%d", z)
			for i := 0; i < perZone; i++ {
				s.Append(zone, sensorEvent(zone, float64(i), base.Add(time.Duration(i)*time.Millisecond)))
				if i%10 == 0 {
					// interleave reads with writes to other zones
					_, _ = s.Snapshot(zone)
				}
			}
		}(z)
	}
	wg.Wait()

	for z := 0; z < zones; z++ {
		zone := fmt.Sprintf("zone-%d", z)
		snap, err := s.Snapshot(zone)
		if err != nil {
			t.Fatalf("snapshot %s: %v", zone, err)
		}
		if len(snap.Window) != capacity {
			t.Errorf("%s window: want %d, got %d", zone, capacity, len(snap.Window))
		}
	}
	if got := len(s.Zones()); got != zones {
		t.Fatalf("zones registered: want %d, got %d", zones, got)
	}
}
