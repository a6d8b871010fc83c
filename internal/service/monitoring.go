package service

import (
	"context"

	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/store"
)

// ErrZoneNotFound mirrors the store sentinel at the service boundary.
var ErrZoneNotFound = store.ErrZoneNotFound

// MonitoringService is the read-only query surface over the zone store.
type MonitoringService struct {
	zones *store.ZoneStore
}

func NewMonitoringService(zones *store.ZoneStore) *MonitoringService {
	return &MonitoringService{zones: zones}
}

// GetZoneState returns a consistent snapshot of one zone.
func (s *MonitoringService) GetZoneState(ctx context.Context, zoneID string) (models.ZoneState, error) {
	return s.zones.Snapshot(zoneID)
}

// ListZones enumerates every zone that has received data.
func (s *MonitoringService) ListZones(ctx context.Context) []string {
	return s.zones.Zones()
}
