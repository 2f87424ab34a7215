// Package postgres stores employee records in a single PostgreSQL table.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employee"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	upsertQuery = `
INSERT INTO employees (name, description, structured_description, tags, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (name) DO UPDATE SET
	description = EXCLUDED.description,
	structured_description = EXCLUDED.structured_description,
	tags = EXCLUDED.tags,
	updated_at = now()
`
	listQuery = `
SELECT name, description, structured_description, tags, updated_at FROM employees
`
)

// Store is an employee.Store backed by a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens a pgx connection pool and performs a Ping to ensure connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// New connects to dsn and applies pending migrations.
func New(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	pool, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	return NewWithPool(pool, logger), nil
}

func NewWithPool(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Migrate brings the schema up to date using the embedded goose migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, dir)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied",
			zap.Int64("version", res.Source.Version),
			zap.Duration("duration", res.Duration),
		)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, record employee.Record) error {
	tags := record.Tags
	if tags == nil {
		tags = []string{}
	}

	if _, err := s.pool.Exec(ctx, upsertQuery, record.Name, record.Description, record.StructuredDescription, tags); err != nil {
		return &employee.StoreError{Op: "upsert", Name: record.Name, Err: err}
	}

	s.logger.Debug("employee row written", zap.String("employee", record.Name))
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]employee.Record, error) {
	rows, err := s.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, &employee.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	records := make([]employee.Record, 0)
	for rows.Next() {
		var r employee.Record
		if err := rows.Scan(&r.Name, &r.Description, &r.StructuredDescription, &r.Tags, &r.UpdatedAt); err != nil {
			return nil, &employee.StoreError{Op: "list", Err: fmt.Errorf("scan row: %w", err)}
		}
		if r.Tags == nil {
			r.Tags = []string{}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &employee.StoreError{Op: "list", Err: err}
	}

	return records, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return &employee.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
