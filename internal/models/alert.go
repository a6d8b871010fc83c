package models

import "time"

type AlertKind string

const (
	AlertHealthDegradation AlertKind = "health_degradation"
	AlertLowStock          AlertKind = "low_stock"
)

type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

type AlertState string

const (
	AlertOpen         AlertState = "open"
	AlertAcknowledged AlertState = "acknowledged"
	AlertClosed       AlertState = "closed"
)

// Alert is one lifecycle of a sustained condition. At most one non-closed
// alert exists per (SubjectID, Kind). For low_stock alerts SubjectID carries
// the resource ID instead of a zone ID.
type Alert struct {
	ID        string        `json:"id"`
	SubjectID string        `json:"subject_id"`
	Kind      AlertKind     `json:"kind"`
	Severity  AlertSeverity `json:"severity"`
	State     AlertState    `json:"state"`
	OpenedAt  time.Time     `json:"opened_at"`
	ClosedAt  *time.Time    `json:"closed_at,omitempty"`
}

// AlertTransition is one audited lifecycle step (opened, escalated,
// acknowledged, closed) of an alert.
type AlertTransition struct {
	ID         string        `json:"id"`
	AlertID    string        `json:"alert_id"`
	SubjectID  string        `json:"subject_id"`
	Kind       AlertKind     `json:"kind"`
	Severity   AlertSeverity `json:"severity"`
	State      AlertState    `json:"state"`
	OccurredAt time.Time     `json:"occurred_at"`
}
