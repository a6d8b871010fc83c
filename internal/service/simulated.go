package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"cultivation_monitor/internal/models"
)

// Simulated operating points per metric: bounded random walks around the
// conditions a healthy maize zone runs at.
var simBaselines = map[models.Metric]struct {
	start, step, min, max float64
}{
	models.MetricWaterLevel:  {start: 85, step: 1.5, min: 40, max: 100},
	models.MetricNutrientEC:  {start: 1.8, step: 0.05, min: 0.5, max: 3.5},
	models.MetricPH:          {start: 6.2, step: 0.05, min: 4.5, max: 7.5},
	models.MetricTemperature: {start: 23.5, step: 0.4, min: 15, max: 32},
}

// SimulatedTelemetrySource fabricates plausible sensor readings, leaf
// classifications, and water/nutrient consumption for local runs without
// hardware or a vision provider. It implements TelemetrySource,
// ClassificationProvider, and UsageSource.
type SimulatedTelemetrySource struct {
	mu     sync.Mutex
	rng    *rand.Rand
	zones  []string
	values map[string]map[models.Metric]float64
	last   time.Time
}

func NewSimulatedTelemetrySource(zones []string, seed int64) *SimulatedTelemetrySource {
	values := make(map[string]map[models.Metric]float64, len(zones))
	for _, z := range zones {
		zv := make(map[models.Metric]float64, len(simBaselines))
		for m, b := range simBaselines {
			zv[m] = b.start
		}
		values[z] = zv
	}
	return &SimulatedTelemetrySource{
		rng:    rand.New(rand.NewSource(seed)),
		zones:  zones,
		values: values,
		last:   time.Now().UTC(),
	}
}

// Poll advances every zone's random walk one step and returns the readings.
func (s *SimulatedTelemetrySource) Poll(ctx context.Context) ([]models.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	out := make([]models.SensorReading, 0, len(s.zones)*len(simBaselines))
	for _, z := range s.zones {
		for m, b := range simBaselines {
			v := s.values[z][m] + (s.rng.Float64()*2-1)*b.step
			if v < b.min {
				v = b.min
			}
			if v > b.max {
				v = b.max
			}
			s.values[z][m] = v
			out = append(out, models.SensorReading{ZoneID: z, Metric: m, Value: v, Timestamp: now})
		}
	}
	s.last = now
	return out, nil
}

// Classify reports healthy most of the time with occasional disease evidence,
// mirroring the shape of a real provider's output.
func (s *SimulatedTelemetrySource) Classify(ctx context.Context, zoneID string) (models.ClassificationResult, error) {
	s.mu.Lock()
	roll := s.rng.Float64()
	conf := 0.75 + s.rng.Float64()*0.24
	s.mu.Unlock()

	label := models.LabelHealthy
	switch {
	case roll < 0.04:
		label = models.LabelFungalInfection
	case roll < 0.07:
		label = models.LabelNutrientDeficiency
	case roll < 0.09:
		label = models.LabelPestDamage
	}
	return models.ClassificationResult{
		ZoneID:     zoneID,
		Label:      label,
		Confidence: conf,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// PollUsage drips a small water and nutrient draw per poll so the forecaster
// has a consumption signal to fit.
func (s *SimulatedTelemetrySource) PollUsage(ctx context.Context) ([]UsageEvent, error) {
	s.mu.Lock()
	water := 0.4 + s.rng.Float64()*0.3
	nutrients := 0.01 + s.rng.Float64()*0.01
	s.mu.Unlock()

	now := time.Now().UTC()
	return []UsageEvent{
		{ResourceID: "water", Quantity: water * float64(len(s.zones)), Timestamp: now},
		{ResourceID: "nutrients", Quantity: nutrients * float64(len(s.zones)), Timestamp: now},
	}, nil
}
