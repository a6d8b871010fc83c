package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"cultivation_monitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestAlertAppendTransition_SetsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewAlertSQLite(db)

	// Generated id and timestamp are unknown; match Exec shape and fixed args.
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO alert_transitions (id, alert_id, subject_id, kind, severity, state, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)).
		WithArgs(sqlmock.AnyArg(), "a-1", "zone-a",
			string(models.AlertHealthDegradation), string(models.SeverityWarning), string(models.AlertOpen),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.AppendTransition(ctx(t), models.AlertTransition{
		// ID empty -> repo generates; OccurredAt zero -> repo sets UTC now
		AlertID:   "a-1",
		SubjectID: "zone-a",
		Kind:      models.AlertHealthDegradation,
		Severity:  models.SeverityWarning,
		State:     models.AlertOpen,
	})
	if err != nil {
		t.Fatalf("AppendTransition: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertAppendTransition_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewAlertSQLite(db)

	mock.ExpectExec("INSERT INTO alert_transitions").
		WillReturnError(errors.New("down"))

	err = repo.AppendTransition(ctx(t), models.AlertTransition{AlertID: "a-1", SubjectID: "zone-a"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertListTransitions_Filters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewAlertSQLite(db)
	now := time.Now().UTC().Truncate(time.Second)

	rows := sqlmock.NewRows([]string{"id", "alert_id", "subject_id", "kind", "severity", "state", "occurred_at"}).
		AddRow("t1", "a-1", "zone-a", "health_degradation", "warning", "open", now).
		AddRow("t2", "a-1", "zone-a", "health_degradation", "warning", "closed", now.Add(time.Minute))

	mock.ExpectQuery("SELECT id, alert_id, subject_id, kind, severity, state, occurred_at FROM alert_transitions WHERE occurred_at >= \\? AND occurred_at <= \\? AND kind = \\? ORDER BY occurred_at ASC").
		WithArgs(now, now.Add(time.Hour), "health_degradation").
		WillReturnRows(rows)

	got, err := repo.ListTransitions(ctx(t), now, now.Add(time.Hour), " Health_Degradation ")
	if err != nil {
		t.Fatalf("ListTransitions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 transitions, got %d", len(got))
	}
	if got[0].State != models.AlertOpen || got[1].State != models.AlertClosed {
		t.Fatalf("unexpected states: %+v", got)
	}
	if got[0].OccurredAt.Location() != time.UTC {
		t.Errorf("timestamps must be normalized to UTC")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertListTransitions_NoFilters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewAlertSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, alert_id, subject_id, kind, severity, state, occurred_at FROM alert_transitions ORDER BY occurred_at ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "alert_id", "subject_id", "kind", "severity", "state", "occurred_at"}))

	got, err := repo.ListTransitions(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("ListTransitions: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
