package models

import "time"

// ReplenishEvent is one quantity change on a tracked resource. Positive delta
// is a replenishment, negative is consumption.
type ReplenishEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Delta     float64   `json:"delta"`
}

// InventoryItem is a trackable resource. Quantity never goes negative:
// consumption is clamped at zero and the discrepancy logged.
type InventoryItem struct {
	ResourceID     string           `json:"resource_id" mapstructure:"resource_id"`
	Quantity       float64          `json:"quantity" mapstructure:"quantity"`
	Unit           string           `json:"unit" mapstructure:"unit"`
	Replenishments []ReplenishEvent `json:"replenishments,omitempty" mapstructure:"-"`
}

// Forecast is the latest derived depletion estimate for a resource.
// EstimatedDepletion is nil when the consumption rate is flat or negative,
// or when there is not enough data to fit one.
type Forecast struct {
	ResourceID         string     `json:"resource_id"`
	EstimatedDepletion *time.Time `json:"estimated_depletion,omitempty"`
	ConsumptionPerHour float64    `json:"consumption_per_hour"`
	ComputedAt         time.Time  `json:"computed_at"`
}
