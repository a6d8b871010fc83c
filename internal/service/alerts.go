package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"cultivation_monitor/internal/logger"
	"cultivation_monitor/internal/metrics"
	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/repository"

	"github.com/google/uuid"
)

// ErrAlertNotFound is surfaced when acknowledging an unknown alert ID.
var ErrAlertNotFound = errors.New("alert not found")

// AlertService runs one hysteresis machine per (subject, kind). A condition
// must persist for DwellCycles consecutive evaluation cycles before an alert
// opens, and resolve for the same dwell plus a wall-clock cool-down before it
// closes. This debounce is what keeps noisy single samples from flapping.
type AlertService struct {
	dwell    int
	cooldown time.Duration
	audit    repository.AlertAudit // optional; nil means in-memory only
	log      *logger.Logger

	mu       sync.Mutex
	machines map[machineKey]*alertMachine
	byID     map[string]*models.Alert
}

type machineKey struct {
	SubjectID string
	Kind      models.AlertKind
}

type alertMachine struct {
	current        *models.Alert // open or acknowledged; nil otherwise
	degradedStreak int
	healthyStreak  int
	lastDegraded   time.Time
}

func NewAlertService(cfg AlertConfig, audit repository.AlertAudit, log *logger.Logger) *AlertService {
	return &AlertService{
		dwell:    cfg.DwellCycles,
		cooldown: cfg.Cooldown,
		audit:    audit,
		log:      log,
		machines: make(map[machineKey]*alertMachine),
		byID:     make(map[string]*models.Alert),
	}
}

// Observe feeds one evaluation cycle for a (subject, kind) pair into its
// machine. degraded reports whether the triggering condition currently holds;
// severity applies when degraded. Transitions are atomic with respect to
// concurrent Acknowledge calls.
func (s *AlertService) Observe(ctx context.Context, subjectID string, kind models.AlertKind, degraded bool, severity models.AlertSeverity, now time.Time) {
	var transition *models.AlertTransition

	s.mu.Lock()
	key := machineKey{SubjectID: subjectID, Kind: kind}
	m := s.machines[key]
	if m == nil {
		m = &alertMachine{}
		s.machines[key] = m
	}

	if degraded {
		m.degradedStreak++
		m.healthyStreak = 0
		m.lastDegraded = now

		switch {
		case m.current == nil && m.degradedStreak >= s.dwell:
			a := &models.Alert{
				ID:        uuid.NewString(),
				SubjectID: subjectID,
				Kind:      kind,
				Severity:  severity,
				State:     models.AlertOpen,
				OpenedAt:  now,
			}
			m.current = a
			s.byID[a.ID] = a
			transition = s.transitionLocked(a, now)
			metrics.OpenAlerts.WithLabelValues(string(kind)).Inc()
		case m.current != nil && severity == models.SeverityCritical && m.current.Severity == models.SeverityWarning:
			// escalate in place; never reopen a second alert for the same kind
			m.current.Severity = models.SeverityCritical
			transition = s.transitionLocked(m.current, now)
		}
	} else {
		m.degradedStreak = 0
		if m.current != nil {
			m.healthyStreak++
			if m.healthyStreak >= s.dwell && now.Sub(m.lastDegraded) >= s.cooldown {
				closedAt := now
				m.current.State = models.AlertClosed
				m.current.ClosedAt = &closedAt
				transition = s.transitionLocked(m.current, now)
				m.current = nil
				m.healthyStreak = 0
				metrics.OpenAlerts.WithLabelValues(string(kind)).Dec()
			}
		} else {
			m.healthyStreak = 0
		}
	}
	s.mu.Unlock()

	// audit I/O stays outside the critical section
	s.record(ctx, transition)
}

// Acknowledge marks an open alert acknowledged. Idempotent: acknowledging an
// already-acknowledged or closed alert succeeds without effect. Unknown IDs
// return ErrAlertNotFound.
func (s *AlertService) Acknowledge(ctx context.Context, alertID string) error {
	var transition *models.AlertTransition

	s.mu.Lock()
	a, ok := s.byID[alertID]
	if !ok {
		s.mu.Unlock()
		return ErrAlertNotFound
	}
	if a.State == models.AlertOpen {
		a.State = models.AlertAcknowledged
		transition = s.transitionLocked(a, time.Now().UTC())
	}
	s.mu.Unlock()

	s.record(ctx, transition)
	return nil
}

// ListOpen returns non-closed alerts, optionally filtered by subject,
// ordered by opening time.
func (s *AlertService) ListOpen(ctx context.Context, subjectID string) []models.Alert {
	s.mu.Lock()
	out := make([]models.Alert, 0, len(s.machines))
	for _, m := range s.machines {
		if m.current == nil {
			continue
		}
		if subjectID != "" && m.current.SubjectID != subjectID {
			continue
		}
		out = append(out, *m.current)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out
}

func (s *AlertService) transitionLocked(a *models.Alert, now time.Time) *models.AlertTransition {
	return &models.AlertTransition{
		ID:         uuid.NewString(),
		AlertID:    a.ID,
		SubjectID:  a.SubjectID,
		Kind:       a.Kind,
		Severity:   a.Severity,
		State:      a.State,
		OccurredAt: now,
	}
}

func (s *AlertService) record(ctx context.Context, t *models.AlertTransition) {
	if t == nil {
		return
	}
	if s.log != nil {
		s.log.Infow("alert_transition",
			"alert_id", t.AlertID, "subject", t.SubjectID, "kind", t.Kind,
			"state", t.State, "severity", t.Severity)
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.AppendTransition(ctx, *t); err != nil && s.log != nil {
		s.log.Errorw("alert_audit_append_failed", "err", err, "alert_id", t.AlertID)
	}
}
