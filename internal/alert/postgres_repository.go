package alert

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Provider and Store.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL alert repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Name returns the provider name.
func (r *PostgresRepository) Name() string {
	return "postgres"
}

// FetchAlerts returns every stored alert.
func (r *PostgresRepository) FetchAlerts(ctx context.Context) ([]*Alert, error) {
	query := `
		SELECT
			id, provider, header, description, url, cause,
			effect, severity, routes, station_ids,
			starts_at, ends_at, updated_at
		FROM alerts
		ORDER BY provider, position
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		var (
			a        Alert
			effect   string
			severity string
			startsAt *time.Time
			endsAt   *time.Time
		)
		if err := rows.Scan(
			&a.ID,
			&a.Provider,
			&a.Header,
			&a.Description,
			&a.URL,
			&a.Cause,
			&effect,
			&severity,
			&a.Routes,
			&a.StationIDs,
			&startsAt,
			&endsAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.Effect = Effect(effect)
		a.Severity = Severity(severity)
		if startsAt != nil {
			a.Start = *startsAt
		}
		if endsAt != nil {
			a.End = *endsAt
		}
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

// ReplaceAlerts swaps all rows for provider in one transaction.
func (r *PostgresRepository) ReplaceAlerts(ctx context.Context, provider string, alerts []*Alert) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM alerts WHERE provider = $1`, provider); err != nil {
		return err
	}

	query := `
		INSERT INTO alerts (
			id, provider, header, description, url, cause,
			effect, severity, routes, station_ids,
			starts_at, ends_at, updated_at, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (provider, id) DO UPDATE SET
			header = EXCLUDED.header,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
	`
	for i, a := range alerts {
		routes := a.Routes
		if routes == nil {
			routes = []RouteRef{}
		}
		stationIDs := a.StationIDs
		if stationIDs == nil {
			stationIDs = []string{}
		}
		if _, err := tx.Exec(ctx, query,
			a.ID, provider, a.Header, a.Description, a.URL, a.Cause,
			string(a.Effect), string(a.Severity), routes, stationIDs,
			nullTime(a.Start), nullTime(a.End), a.UpdatedAt, i,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Ensure PostgresRepository implements Provider and Store interfaces.
var (
	_ Provider = (*PostgresRepository)(nil)
	_ Store    = (*PostgresRepository)(nil)
)
