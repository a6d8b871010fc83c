package repository

import (
	"context"
	"database/sql"
	"time"

	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/repository/db"
)

// AlertAudit durably records alert lifecycle transitions for history queries.
type AlertAudit interface {
	AppendTransition(ctx context.Context, t models.AlertTransition) error
	ListTransitions(ctx context.Context, from, to time.Time, kind string) ([]models.AlertTransition, error)
}

// ReplenishmentAudit durably records inventory replenishment events.
type ReplenishmentAudit interface {
	Append(ctx context.Context, resourceID string, e models.ReplenishEvent) error
	List(ctx context.Context, resourceID string) ([]models.ReplenishEvent, error)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	Alerts         AlertAudit
	Replenishments ReplenishmentAudit
	Auth           Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Alerts:         NewAlertSQLite(sqlDB),
		Replenishments: NewReplenishmentSQLite(sqlDB),
		Auth:           NewUserRepository(sqlDB),
	}
}

// InitDB opens the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
