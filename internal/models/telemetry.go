package models

import "time"

// Metric identifies a sensor channel.
type Metric string

const (
	MetricWaterLevel  Metric = "water_level"
	MetricNutrientEC  Metric = "nutrient_ec"
	MetricPH          Metric = "ph"
	MetricTemperature Metric = "temperature"
)

// KnownMetric reports whether m is one of the supported sensor channels.
func KnownMetric(m Metric) bool {
	switch m {
	case MetricWaterLevel, MetricNutrientEC, MetricPH, MetricTemperature:
		return true
	}
	return false
}

// SensorReading is a single raw measurement for a zone. Immutable once created.
type SensorReading struct {
	ZoneID    string    `json:"zone_id"`
	Metric    Metric    `json:"metric"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Label is a leaf-classification outcome.
type Label string

const (
	LabelHealthy            Label = "healthy"
	LabelNutrientDeficiency Label = "nutrient_deficiency"
	LabelFungalInfection    Label = "fungal_infection"
	LabelPestDamage         Label = "pest_damage"
	LabelUnknown            Label = "unknown"
)

// Degraded reports whether the label is disease/pest evidence.
func (l Label) Degraded() bool {
	switch l {
	case LabelNutrientDeficiency, LabelFungalInfection, LabelPestDamage:
		return true
	}
	return false
}

// ClassificationResult is a raw vision-classification outcome for a zone. Immutable.
type ClassificationResult struct {
	ZoneID     string    `json:"zone_id"`
	Label      Label     `json:"label"`
	Confidence float64   `json:"confidence"` // [0,1]
	Timestamp  time.Time `json:"timestamp"`
}

// EventKind tags the variant held by a NormalizedEvent.
type EventKind string

const (
	EventSensor         EventKind = "sensor"
	EventClassification EventKind = "classification"
)

// NormalizedEvent is the common typed event both raw shapes normalize into.
// Invalid events (out-of-range value, low confidence) are kept for audit but
// excluded from aggregation.
type NormalizedEvent struct {
	Kind      EventKind `json:"kind"`
	ZoneID    string    `json:"zone_id"`
	Timestamp time.Time `json:"timestamp"`
	Valid     bool      `json:"valid"`
	Reason    string    `json:"reason,omitempty"` // set when Valid=false

	// sensor variant
	Metric Metric  `json:"metric,omitempty"`
	Value  float64 `json:"value,omitempty"`

	// classification variant
	Label      Label   `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}
