package models

import "time"

// HealthLevel is the discretized bucket derived from the continuous score.
type HealthLevel string

const (
	HealthHealthy  HealthLevel = "healthy"
	HealthWarning  HealthLevel = "warning"
	HealthCritical HealthLevel = "critical"
)

// ZoneState is the per-zone snapshot: the bounded event window plus the
// derived health score and level. Owned exclusively by the zone store;
// snapshots are deep copies.
type ZoneState struct {
	ZoneID      string            `json:"zone_id"`
	Window      []NormalizedEvent `json:"window"`
	HealthScore float64           `json:"health_score"` // [0,1], higher is healthier
	HealthLevel HealthLevel       `json:"health_level"`
	LastUpdated time.Time         `json:"last_updated"`
}
