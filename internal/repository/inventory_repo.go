package repository

import (
	"context"
	"database/sql"
	"time"

	"cultivation_monitor/internal/models"

	"github.com/google/uuid"
)

type ReplenishmentSQLite struct {
	db *sql.DB
}

func NewReplenishmentSQLite(db *sql.DB) *ReplenishmentSQLite {
	return &ReplenishmentSQLite{db: db}
}

var _ ReplenishmentAudit = (*ReplenishmentSQLite)(nil)

const (
	insertReplenishmentSQL = `INSERT INTO replenishments (id, resource_id, delta, occurred_at) VALUES (?, ?, ?, ?)`
	selectReplenishmentSQL = `SELECT delta, occurred_at FROM replenishments WHERE resource_id = ? ORDER BY occurred_at ASC`
)

// Append records one replenishment event for audit/history.
func (r *ReplenishmentSQLite) Append(ctx context.Context, resourceID string, e models.ReplenishEvent) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}
	_, err := r.db.ExecContext(ctx, insertReplenishmentSQL,
		uuid.NewString(),
		resourceID,
		e.Delta,
		ts.Format(sqliteTimestampLayout),
	)
	return err
}

// List returns the replenishment history of one resource, oldest first.
func (r *ReplenishmentSQLite) List(ctx context.Context, resourceID string) ([]models.ReplenishEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectReplenishmentSQL, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ReplenishEvent, 0, 16)
	for rows.Next() {
		var e models.ReplenishEvent
		if err := rows.Scan(&e.Delta, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
