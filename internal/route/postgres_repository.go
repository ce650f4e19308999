package route

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectRoutes = `
		SELECT id, mode, name, origin, destination,
		       travel_time_minutes, fare, transfers
		FROM routes
		ORDER BY position, id
	`

	insertRoute = `
		INSERT INTO routes (id, mode, name, origin, destination,
		                    travel_time_minutes, fare, transfers, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
)

// PostgresRepository reads routes from the routes table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadRoutes returns every route in insertion order.
func (r *PostgresRepository) LoadRoutes(ctx context.Context) ([]Route, error) {
	rows, err := r.pool.Query(ctx, selectRoutes)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}

	routes, err := pgx.CollectRows(rows, scanRoute)
	if err != nil {
		return nil, fmt.Errorf("scanning routes: %w", err)
	}
	return routes, nil
}

func scanRoute(row pgx.CollectableRow) (Route, error) {
	var rt Route
	var mode string
	err := row.Scan(
		&rt.ID,
		&mode,
		&rt.Name,
		&rt.From,
		&rt.To,
		&rt.TravelTimeMinutes,
		&rt.Fare,
		&rt.Transfers,
	)
	rt.Mode = Mode(mode)
	return rt, err
}

// Replace overwrites the routes table with routes in a single transaction.
// Used by routegen to seed a database.
func (r *PostgresRepository) Replace(ctx context.Context, routes []Route) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM routes`); err != nil {
			return fmt.Errorf("clearing routes: %w", err)
		}

		batch := &pgx.Batch{}
		for i, rt := range routes {
			batch.Queue(insertRoute,
				rt.ID, string(rt.Mode), rt.Name, rt.From, rt.To,
				rt.TravelTimeMinutes, rt.Fare, rt.Transfers, i,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting routes: %w", err)
		}
		return nil
	})
}
