package service

import (
	"context"
	"time"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/repository"
	"cultivation_monitor/internal/store"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Ingest is the write path for raw telemetry and classifications.
type Ingest interface {
	SubmitReading(ctx context.Context, r models.SensorReading) (models.NormalizedEvent, error)
	SubmitClassification(ctx context.Context, c models.ClassificationResult) (models.NormalizedEvent, error)
}

// Monitoring exposes read-only zone state.
type Monitoring interface {
	GetZoneState(ctx context.Context, zoneID string) (models.ZoneState, error)
	ListZones(ctx context.Context) []string
}

// Alerts exposes the alert lifecycle to consumers.
type Alerts interface {
	ListOpen(ctx context.Context, subjectID string) []models.Alert
	Acknowledge(ctx context.Context, alertID string) error
}

// Inventory exposes replenishment recording and depletion forecasts.
type Inventory interface {
	RecordReplenishment(ctx context.Context, resourceID string, qty float64, ts time.Time) error
	GetForecast(ctx context.Context, resourceID string) (models.Forecast, error)
}

// Audit exposes the persisted alert-transition history with filtering access.
type Audit interface {
	ListTransitions(ctx context.Context, f LogFilter) ([]models.AlertTransition, error)
}

// Scheduler runs the periodic aggregation and forecast loops.
// Stop via context cancellation in main() for graceful shutdown.
type Scheduler interface {
	Run(ctx context.Context, aggregateTick, forecastTick time.Duration)
}

// Poller runs the producer loops feeding the core.
type Poller interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Ingest
	Monitoring
	Alerts
	Inventory
	Audit
	Scheduler
	Poller
	Authorization
}

// NewService wires the in-memory stores, audit repositories, and config into
// concrete services. Pass a nil repos for fully in-memory operation (audit
// history then reads empty and auth is unavailable to callers that need it).
func NewService(repos *repository.Repository, zones *store.ZoneStore, items *store.InventoryStore, cfg Config, log *logger.Logger) *Service {
	var (
		alertAudit     repository.AlertAudit
		replenishAudit repository.ReplenishmentAudit
		authRepo       repository.Authorization
	)
	if repos != nil {
		alertAudit = repos.Alerts
		replenishAudit = repos.Replenishments
		authRepo = repos.Auth
	}

	alerts := NewAlertService(cfg.Alerts, alertAudit, log)
	inventory := NewInventoryService(items, cfg.Inventory, replenishAudit, log)
	ingest := NewIngestService(zones, cfg.Normalizer, log)

	sim := NewSimulatedTelemetrySource(cfg.Telemetry.Zones, time.Now().UnixNano())

	return &Service{
		Ingest:        ingest,
		Monitoring:    NewMonitoringService(zones),
		Alerts:        alerts,
		Inventory:     inventory,
		Audit:         NewAuditService(alertAudit),
		Scheduler:     NewSchedulerService(zones, cfg.Health, cfg.Normalizer.Ranges, alerts, inventory, log),
		Poller:        NewPollerService(sim, sim, sim, ingest, inventory, cfg.Telemetry, log),
		Authorization: NewAuthService(authRepo, cfg.Auth),
	}
}
