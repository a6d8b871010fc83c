package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/repository"
)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// LogFilter narrows the audited alert-transition history.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "", "health_degradation", "low_stock"
}

// AuditService exposes the persisted alert-transition log.
type AuditService struct {
	repo repository.AlertAudit // optional; nil yields empty history
}

func NewAuditService(repo repository.AlertAudit) *AuditService {
	return &AuditService{repo: repo}
}

// ListTransitions returns audited transitions matching the filter.
func (s *AuditService) ListTransitions(ctx context.Context, f LogFilter) ([]models.AlertTransition, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	if s.repo == nil {
		return []models.AlertTransition{}, nil
	}
	return s.repo.ListTransitions(ctx, from, to, kind)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	kind := strings.TrimSpace(strings.ToLower(f.Kind))
	return from, to, kind, nil
}
