// Package provider implements graphcache.Provider against real upstream
// data sources. No persisted state belongs to the core: these are
// read-only views, and the core never writes back.
package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver, used only by the lightweight Available() probe below

	"github.com/flightrouter/pareto/schema"
)

// PostgresConfig carries the connection fields a read-only flight-row
// reader needs.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ConnString builds a libpq keyword/value connection string.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// flightRowsQuery selects exactly the columns schema.FlightRow interprets
// plus the preserved extras, from a single denormalized flights table.
const flightRowsQuery = `
SELECT departure_airport, arrival_airport, dep_time, arr_time, price,
       COALESCE(carrier_code, ''), COALESCE(carrier_name, ''),
       COALESCE(baggage, ''), COALESCE(terminal, ''),
       COALESCE(scheduled_dep_text, ''), COALESCE(scheduled_arr_text, ''),
       COALESCE(co2_kg, 0)
FROM flights
`

const airportCountQuery = `SELECT count(DISTINCT departure_airport) FROM flights`

// PostgresProvider is a graphcache.Provider backed by a pgx connection pool
// for the bulk row read, plus a separate lightweight database/sql handle
// (via lib/pq) for the cheap Available() probe, kept independent of the
// pgx pool so a health check still reports accurately if the pool itself
// is exhausted.
type PostgresProvider struct {
	pool  *pgxpool.Pool
	probe *sql.DB
}

// NewPostgresProvider opens both the pgx pool and the database/sql probe
// handle.
func NewPostgresProvider(ctx context.Context, cfg PostgresConfig) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	probe, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open postgres probe handle: %w", err)
	}

	return &PostgresProvider{pool: pool, probe: probe}, nil
}

// Close releases the underlying pool and probe handle.
func (p *PostgresProvider) Close() {
	p.pool.Close()
	_ = p.probe.Close()
}

// FlightRows implements graphcache.Provider.
func (p *PostgresProvider) FlightRows(ctx context.Context) ([]schema.FlightRow, error) {
	rows, err := p.pool.Query(ctx, flightRowsQuery)
	if err != nil {
		return nil, fmt.Errorf("query flight rows: %w", err)
	}
	defer rows.Close()

	var out []schema.FlightRow
	for rows.Next() {
		var r schema.FlightRow
		if err := rows.Scan(
			&r.DepartureAirport, &r.ArrivalAirport, &r.DepTime, &r.ArrTime, &r.Price,
			&r.CarrierCode, &r.CarrierName, &r.Baggage, &r.Terminal,
			&r.ScheduledDepText, &r.ScheduledArrText, &r.CO2Kg,
		); err != nil {
			return nil, fmt.Errorf("scan flight row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flight rows: %w", err)
	}
	return out, nil
}

// Available implements graphcache.Provider via a cheap existence probe over
// the database/sql handle, deliberately independent of the pgx pool so a
// health check still reports accurately if the pool itself is exhausted.
func (p *PostgresProvider) Available(ctx context.Context) bool {
	var count int
	if err := p.probe.QueryRowContext(ctx, airportCountQuery).Scan(&count); err != nil {
		return false
	}
	return count > 0
}

// ErrNotConfigured is returned by callers that wire a provider optionally
// and find none configured (e.g. CSV fallback disabled, Postgres DSN empty).
var ErrNotConfigured = errors.New("provider: no data source configured")
