// Package storage provides the optional PostgreSQL archive of emitted
// alerts. The live dashboard runs without it; when a DSN is configured
// every emitted alert is additionally recorded here for auditing.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	insertAlertSQL = `INSERT INTO alert_audit (
        category,
        priority,
        title,
        message,
        created_at
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    RETURNING id, category, priority, title, message, created_at;`

	listRecentAlertsSQL = `SELECT
        id,
        category,
        priority,
        title,
        message,
        created_at
    FROM alert_audit
    ORDER BY created_at DESC
    LIMIT $1;`

	deleteAlertsBeforeSQL = `DELETE FROM alert_audit WHERE created_at < $1;`

	countAlertsSQL = `SELECT COUNT(*) FROM alert_audit;`
)

// AuditRecord is one archived alert emission.
type AuditRecord struct {
	ID        int64
	Category  string
	Priority  string
	Title     string
	Message   string
	CreatedAt time.Time
}

// AlertAuditStore defines operations for alert auditing.
type AlertAuditStore interface {
	InsertAlert(ctx context.Context, record AuditRecord) (AuditRecord, error)
	ListRecentAlerts(ctx context.Context, limit int) ([]AuditRecord, error)
	DeleteAlertsBefore(ctx context.Context, olderThan time.Time) error
	CountAlerts(ctx context.Context) (int64, error)
}

// Store aggregates access to the alert archive.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// InsertAlert persists an alert emission.
func (s *Store) InsertAlert(ctx context.Context, record AuditRecord) (AuditRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return AuditRecord{}, err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := pool.QueryRow(ctx, insertAlertSQL,
		record.Category,
		record.Priority,
		record.Title,
		record.Message,
		createdAt,
	)

	var rec AuditRecord
	if scanErr := row.Scan(
		&rec.ID,
		&rec.Category,
		&rec.Priority,
		&rec.Title,
		&rec.Message,
		&rec.CreatedAt,
	); scanErr != nil {
		return AuditRecord{}, fmt.Errorf("insert alert: %w", scanErr)
	}
	return rec, nil
}

// ListRecentAlerts lists the most recently archived alerts.
func (s *Store) ListRecentAlerts(ctx context.Context, limit int) ([]AuditRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentAlertsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent alerts: %w", queryErr)
	}
	defer rows.Close()

	alerts := make([]AuditRecord, 0, limit)
	for rows.Next() {
		var rec AuditRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Category,
			&rec.Priority,
			&rec.Title,
			&rec.Message,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return alerts, nil
}

// DeleteAlertsBefore deletes archived alerts older than the cutoff.
func (s *Store) DeleteAlertsBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteAlertsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete alerts before: %w", execErr)
	}
	return nil
}

// CountAlerts counts archived alerts.
func (s *Store) CountAlerts(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countAlertsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count alerts: %w", scanErr)
	}
	return count, nil
}

var _ AlertAuditStore = (*Store)(nil)
