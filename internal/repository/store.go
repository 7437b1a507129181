package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// database/sql drivers: local runs use in-process SQLite, shared runs Postgres
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store is the optional batch-results store. Runs work fine without it; when
// a DSN is configured every batch and record is persisted for later auditing.
type Store struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	source_dir  TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	documents   INTEGER NOT NULL DEFAULT 0,
	failures    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS records (
	id           TEXT PRIMARY KEY,
	batch_id     TEXT NOT NULL REFERENCES batches(id),
	filename     TEXT NOT NULL,
	status       TEXT NOT NULL,
	fields_json  TEXT NOT NULL,
	warnings     TEXT,
	needs_review BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_batch ON records(batch_id);
`

// Open connects to the store and ensures the schema exists. The driver is
// chosen from the DSN: postgres URLs go through pgx, anything else is treated
// as a SQLite path or URI.
func Open(ctx context.Context, dsn string, dialTimeout time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("opening results store", "driver", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	s := &Store{db: db, driver: driver, logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("results store ready")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaDDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate store: %w", err)
		}
	}
	return nil
}

// HealthCheck pings the store to catch DSN issues early.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	s.logger.Info("closing results store")
	return s.db.Close()
}

// rebind rewrites ? placeholders to $N for the Postgres driver.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
