package service

import (
	"math"
	"time"

	"cultivation_monitor/internal/models"
)

// ComputeHealth derives the smoothed health score and discrete level for one
// zone from its event window.
//
// Sensor evidence: an exponential moving average over the window (oldest
// first) of each reading's normalized deviation from its ideal band. Readings
// inside the band contribute zero deviation.
//
// Classification evidence: each valid classification contributes its
// confidence weighted by exponential recency decay; disease/pest labels add
// penalty, healthy labels offset it, unknown is neutral. With no fresh
// classifications the contribution decays toward zero, so stale disease
// evidence cannot pin a zone down forever.
//
// An empty window yields score 1.0 / healthy: the optimistic default is a
// deliberate policy so new zones do not alarm before data exists.
func ComputeHealth(window []models.NormalizedEvent, ranges map[models.Metric]RangeConfig, cfg HealthConfig, now time.Time) (float64, models.HealthLevel) {
	var (
		ema        float64
		emaPrimed  bool
		penalty    float64
		support    float64
		halfLifeHr = cfg.DecayHalfLife.Hours()
	)

	for _, ev := range window {
		if !ev.Valid {
			continue
		}
		switch ev.Kind {
		case models.EventSensor:
			rng, ok := ranges[ev.Metric]
			if !ok {
				continue
			}
			d := deviation(ev.Value, rng)
			if !emaPrimed {
				ema = d
				emaPrimed = true
			} else {
				ema = cfg.EMAAlpha*d + (1-cfg.EMAAlpha)*ema
			}
		case models.EventClassification:
			w := ev.Confidence * recencyWeight(now.Sub(ev.Timestamp), halfLifeHr)
			if ev.Label.Degraded() {
				penalty += w
			} else if ev.Label == models.LabelHealthy {
				support += w
			}
		}
	}

	classPenalty := clamp01(penalty - support)
	sensorPenalty := 0.0
	if emaPrimed {
		sensorPenalty = clamp01(ema)
	}

	score := clamp01(1 - cfg.SensorWeight*sensorPenalty - cfg.ClassificationWeight*classPenalty)
	return score, levelFor(score, cfg)
}

// deviation measures how far a value sits outside its ideal band, normalized
// by the distance from the band edge to the plausible limit. 0 inside the
// band, 1 at (or beyond) the plausible boundary.
func deviation(value float64, rng RangeConfig) float64 {
	switch {
	case value < rng.IdealMin:
		span := rng.IdealMin - rng.Min
		if span <= 0 {
			return 1
		}
		return clamp01((rng.IdealMin - value) / span)
	case value > rng.IdealMax:
		span := rng.Max - rng.IdealMax
		if span <= 0 {
			return 1
		}
		return clamp01((value - rng.IdealMax) / span)
	default:
		return 0
	}
}

// recencyWeight halves per half-life elapsed. Future timestamps count as now.
func recencyWeight(age time.Duration, halfLifeHours float64) float64 {
	if halfLifeHours <= 0 {
		return 1
	}
	hrs := age.Hours()
	if hrs < 0 {
		hrs = 0
	}
	return math.Pow(0.5, hrs/halfLifeHours)
}

func levelFor(score float64, cfg HealthConfig) models.HealthLevel {
	switch {
	case score >= cfg.HealthyThreshold:
		return models.HealthHealthy
	case score >= cfg.WarningThreshold:
		return models.HealthWarning
	default:
		return models.HealthCritical
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
