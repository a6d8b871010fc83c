package service

import (
	"context"
	"errors"
	"time"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/metrics"
	"cultivation_monitor/internal/models"
)

// ErrProviderUnavailable signals a classification source failure. The core
// treats it as "no event this cycle"; retry policy belongs to the provider
// wrapper, not here.
var ErrProviderUnavailable = errors.New("classification provider unavailable")

// TelemetrySource periodically yields sensor readings for the tracked zones.
type TelemetrySource interface {
	Poll(ctx context.Context) ([]models.SensorReading, error)
}

// ClassificationProvider returns the latest leaf classification for a zone,
// or ErrProviderUnavailable.
type ClassificationProvider interface {
	Classify(ctx context.Context, zoneID string) (models.ClassificationResult, error)
}

// UsageEvent is a resource consumption observation from the inventory poller.
type UsageEvent struct {
	ResourceID string
	Quantity   float64
	Timestamp  time.Time
}

// UsageSource periodically yields resource consumption since the last poll.
type UsageSource interface {
	PollUsage(ctx context.Context) ([]UsageEvent, error)
}

type rawEvent struct {
	reading        *models.SensorReading
	classification *models.ClassificationResult
}

// PollerService runs the producer loops: it polls the telemetry source every
// tick, the classification provider every ClassifyEvery ticks, and the usage
// source every tick, pushing results through a bounded channel into the
// ingest path. Blocking happens only at this I/O boundary, never inside zone
// mutation; a full buffer drops the event rather than stalling the poll loop.
type PollerService struct {
	source    TelemetrySource
	provider  ClassificationProvider
	usage     UsageSource // optional
	ingest    *IngestService
	inventory *InventoryService
	zones     []string
	every     int
	events    chan rawEvent
	log       *logger.Logger
}

func NewPollerService(source TelemetrySource, provider ClassificationProvider, usage UsageSource, ingest *IngestService, inventory *InventoryService, cfg TelemetryConfig, log *logger.Logger) *PollerService {
	buf := cfg.BufferSize
	if buf <= 0 {
		buf = 1024
	}
	every := cfg.ClassifyEvery
	if every < 1 {
		every = 1
	}
	return &PollerService{
		source:    source,
		provider:  provider,
		usage:     usage,
		ingest:    ingest,
		inventory: inventory,
		zones:     cfg.Zones,
		every:     every,
		events:    make(chan rawEvent, buf),
		log:       log,
	}
}

// Run polls until ctx is canceled.
func (s *PollerService) Run(ctx context.Context, tick time.Duration) {
	go s.drain(ctx)

	t := time.NewTicker(tick)
	defer t.Stop()

	cycle := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cycle++
			s.pollTelemetry(ctx)
			if cycle%s.every == 0 {
				s.pollClassifications(ctx)
			}
			s.pollUsage(ctx)
		}
	}
}

func (s *PollerService) pollTelemetry(ctx context.Context) {
	readings, err := s.source.Poll(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("telemetry_poll_failed", "err", err)
		}
		return
	}
	for i := range readings {
		s.enqueue(rawEvent{reading: &readings[i]})
	}
}

func (s *PollerService) pollClassifications(ctx context.Context) {
	for _, zone := range s.zones {
		res, err := s.provider.Classify(ctx, zone)
		if err != nil {
			// skipped cycle, never fatal to aggregation
			metrics.ProviderFailures.Inc()
			if s.log != nil {
				s.log.Infow("classification_skipped", "zone", zone, "err", err)
			}
			continue
		}
		s.enqueue(rawEvent{classification: &res})
	}
}

func (s *PollerService) pollUsage(ctx context.Context) {
	if s.usage == nil {
		return
	}
	usages, err := s.usage.PollUsage(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("usage_poll_failed", "err", err)
		}
		return
	}
	for _, u := range usages {
		if err := s.inventory.RecordUsage(ctx, u.ResourceID, u.Quantity, u.Timestamp); err != nil && s.log != nil {
			s.log.Errorw("usage_record_failed", "resource", u.ResourceID, "err", err)
		}
	}
}

func (s *PollerService) enqueue(ev rawEvent) {
	select {
	case s.events <- ev:
	default:
		metrics.DroppedEvents.Inc()
		if s.log != nil {
			s.log.Errorw("ingest_buffer_full_event_dropped")
		}
	}
}

func (s *PollerService) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			var err error
			switch {
			case ev.reading != nil:
				_, err = s.ingest.SubmitReading(ctx, *ev.reading)
			case ev.classification != nil:
				_, err = s.ingest.SubmitClassification(ctx, *ev.classification)
			}
			if err != nil && s.log != nil {
				s.log.Errorw("ingest_failed", "err", err)
			}
		}
	}
}
