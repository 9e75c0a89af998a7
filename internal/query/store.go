// Package query executes the parameterized read queries behind each
// intent and shapes the rows into the uniform QueryResult envelope.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Limits are the per-intent default row caps applied when the user did
// not ask for a specific number of rows.
type Limits struct {
	Search           int `yaml:"search"`
	TopN             int `yaml:"top_n"`
	PredictionMonths int `yaml:"prediction_months"`
}

// DefaultLimits matches the dataset's documented defaults: 20 search
// rows, top 10 for cheapest/most-expensive, 12 prediction months.
func DefaultLimits() Limits {
	return Limits{Search: 20, TopN: 10, PredictionMonths: 12}
}

// Store owns the Postgres connection pool. Each query checks a
// connection out of the pool for its own duration only; no transaction
// spans a request.
type Store struct {
	db     *sqlx.DB
	limits Limits
}

// NewStore connects to Postgres and configures the pool.
func NewStore(dsn string, maxConn, maxIdleConn int, limits Limits) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, limits: limits}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies connectivity, used by the diagnostics endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AvailableTowns lists the distinct town names in the dataset. The
// fallback advisor uses it to suggest working queries.
func (s *Store) AvailableTowns(ctx context.Context) ([]string, error) {
	var towns []string
	err := s.db.SelectContext(ctx, &towns, `SELECT DISTINCT t.name FROM town t ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list towns: %w", err)
	}
	return towns, nil
}
