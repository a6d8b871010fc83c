package service

import (
	"fmt"
	"time"

	"cultivation_monitor/internal/models"
)

// The normalizer is pure and stateless: it converts the two raw shapes into
// the common tagged event, marking implausible values and low-confidence
// classifications invalid. Invalid events still get appended for audit but
// never feed the health score.

// NormalizeReading converts a raw sensor reading into a NormalizedEvent.
func NormalizeReading(r models.SensorReading, ranges map[models.Metric]RangeConfig) models.NormalizedEvent {
	ev := models.NormalizedEvent{
		Kind:      models.EventSensor,
		ZoneID:    r.ZoneID,
		Timestamp: normalizeTimestamp(r.Timestamp),
		Metric:    r.Metric,
		Value:     r.Value,
		Valid:     true,
	}

	if !models.KnownMetric(r.Metric) {
		ev.Valid = false
		ev.Reason = fmt.Sprintf("unknown metric %q", r.Metric)
		return ev
	}

	rng, ok := ranges[r.Metric]
	if !ok {
		// no configured plausible range means no basis to reject
		return ev
	}
	if r.Value < rng.Min || r.Value > rng.Max {
		ev.Valid = false
		ev.Reason = fmt.Sprintf("value %.3f outside plausible range [%.3f, %.3f]", r.Value, rng.Min, rng.Max)
	}
	return ev
}

// NormalizeClassification converts a raw classification result into a
// NormalizedEvent, rejecting confidences below minConfidence or outside [0,1].
func NormalizeClassification(c models.ClassificationResult, minConfidence float64) models.NormalizedEvent {
	ev := models.NormalizedEvent{
		Kind:       models.EventClassification,
		ZoneID:     c.ZoneID,
		Timestamp:  normalizeTimestamp(c.Timestamp),
		Label:      c.Label,
		Confidence: c.Confidence,
		Valid:      true,
	}

	switch c.Label {
	case models.LabelHealthy, models.LabelNutrientDeficiency, models.LabelFungalInfection,
		models.LabelPestDamage, models.LabelUnknown:
	default:
		ev.Valid = false
		ev.Reason = fmt.Sprintf("unknown label %q", c.Label)
		return ev
	}

	if c.Confidence < 0 || c.Confidence > 1 {
		ev.Valid = false
		ev.Reason = fmt.Sprintf("confidence %.3f outside [0,1]", c.Confidence)
		return ev
	}
	if c.Confidence < minConfidence {
		ev.Valid = false
		ev.Reason = fmt.Sprintf("confidence %.3f below minimum %.3f", c.Confidence, minConfidence)
	}
	return ev
}

// normalizeTimestamp defaults a zero timestamp to now and pins to UTC.
func normalizeTimestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
