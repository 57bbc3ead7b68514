// Package postgres provides Postgres-backed persistence for extracted
// swatches. The target table carries one row per (run, position):
// run_id, position, name, code, r, g, b, c, m, y, k, hex.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for swatch rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// SwatchStore writes swatch rows into Postgres.
type SwatchStore struct {
	pool  execCloser
	table string
}

// New creates a Postgres-backed SwatchStore using the provided config.
func New(ctx context.Context, cfg Config) (*SwatchStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "swatches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &SwatchStore{pool: pool, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string) (*SwatchStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "swatches"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SwatchStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *SwatchStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// SaveSwatch inserts one extracted swatch row keyed by run and position.
func (s *SwatchStore) SaveSwatch(ctx context.Context, runID string, position int, rec swatch.Record) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("swatch store is not configured")
	}
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	if position < 0 {
		return fmt.Errorf("position must be >= 0")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate swatch: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	run_id,
	position,
	name,
	code,
	r,
	g,
	b,
	c,
	m,
	y,
	k,
	hex
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)`, s.table)

	args := []any{
		runID,
		position,
		rec.Name,
		rec.Code,
		rec.RGB.R,
		rec.RGB.G,
		rec.RGB.B,
		rec.CMYK.C,
		rec.CMYK.M,
		rec.CMYK.Y,
		rec.CMYK.K,
		rec.RGB.Hex(),
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert swatch: %w", err)
	}
	return nil
}
