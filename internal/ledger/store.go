// Package ledger implements the document-store-backed transaction ledger.
// Scores, case logs, merchant profiles and policies are stored as JSONB
// documents; the ledger is append-only for scores and case logs.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// Store wraps a pgx connection pool for the firewall's document tables
type Store struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New connects to PostgreSQL and verifies the connection
func New(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool, log: log.Named("ledger")}, nil
}

// Migrate creates the document tables if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transaction_scores (
			id          UUID PRIMARY KEY,
			merchant_id TEXT NOT NULL,
			doc         JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_merchant_time
			ON transaction_scores (merchant_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS merchant_profiles (
			merchant_id TEXT PRIMARY KEY,
			doc         JSONB NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS merchant_policies (
			merchant_key TEXT PRIMARY KEY,
			doc          JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_logs (
			id          UUID PRIMARY KEY,
			merchant_id TEXT NOT NULL,
			doc         JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks store connectivity for the status probe
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}
