package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"cultivation_monitor/internal/models"

	"github.com/google/uuid"
)

const sqliteTimestampLayout = "2006-01-02 15:04:05"

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertAudit = (*AlertSQLite)(nil)

// AppendTransition inserts one lifecycle step. ID and OccurredAt are set when
// empty.
func (r *AlertSQLite) AppendTransition(ctx context.Context, t models.AlertTransition) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = time.Now().UTC()
	} else {
		t.OccurredAt = t.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_transitions (id, alert_id, subject_id, kind, severity, state, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.AlertID,
		t.SubjectID,
		string(t.Kind),
		string(t.Severity),
		string(t.State),
		t.OccurredAt.Format(sqliteTimestampLayout),
	)
	return err
}

// ListTransitions returns transitions filtered by [from, to] (inclusive)
// and/or kind, ordered ascending by occurrence.
func (r *AlertSQLite) ListTransitions(ctx context.Context, from, to time.Time, kind string) ([]models.AlertTransition, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if kind = strings.TrimSpace(strings.ToLower(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, alert_id, subject_id, kind, severity, state, occurred_at FROM alert_transitions`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AlertTransition, 0, 64)
	for rows.Next() {
		var t models.AlertTransition
		var kindStr, sevStr, stateStr string
		if err := rows.Scan(&t.ID, &t.AlertID, &t.SubjectID, &kindStr, &sevStr, &stateStr, &t.OccurredAt); err != nil {
			return nil, err
		}
		t.Kind = models.AlertKind(kindStr)
		t.Severity = models.AlertSeverity(sevStr)
		t.State = models.AlertState(stateStr)
		t.OccurredAt = t.OccurredAt.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
