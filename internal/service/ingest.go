package service

import (
	"context"
	"errors"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/metrics"
	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/store"
)

var errMissingZone = errors.New("zone_id is required")

// IngestService is the write path into the fusion core: it normalizes raw
// readings and classifications and appends them to the zone store. Invalid
// events are appended too (audit trail) but counted separately and excluded
// from aggregation by the health computation.
type IngestService struct {
	zones *store.ZoneStore
	cfg   NormalizerConfig
	log   *logger.Logger
}

func NewIngestService(zones *store.ZoneStore, cfg NormalizerConfig, log *logger.Logger) *IngestService {
	return &IngestService{zones: zones, cfg: cfg, log: log}
}

// SubmitReading normalizes and stores one sensor reading.
func (s *IngestService) SubmitReading(ctx context.Context, r models.SensorReading) (models.NormalizedEvent, error) {
	if r.ZoneID == "" {
		return models.NormalizedEvent{}, errMissingZone
	}
	ev := NormalizeReading(r, s.cfg.Ranges)
	s.append(ev)
	return ev, nil
}

// SubmitClassification normalizes and stores one classification result.
func (s *IngestService) SubmitClassification(ctx context.Context, c models.ClassificationResult) (models.NormalizedEvent, error) {
	if c.ZoneID == "" {
		return models.NormalizedEvent{}, errMissingZone
	}
	ev := NormalizeClassification(c, s.cfg.MinConfidence)
	s.append(ev)
	return ev, nil
}

func (s *IngestService) append(ev models.NormalizedEvent) {
	s.zones.Append(ev.ZoneID, ev)
	metrics.EventsIngested.WithLabelValues(string(ev.Kind)).Inc()
	if !ev.Valid {
		metrics.InvalidEvents.WithLabelValues(string(ev.Kind)).Inc()
		if s.log != nil {
			s.log.Infow("invalid_event_recorded", "zone", ev.ZoneID, "kind", ev.Kind, "reason", ev.Reason)
		}
	}
}
