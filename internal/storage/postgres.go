package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// RecordLookup inserts a lookup record into PostgreSQL.
func (p *PostgresStorage) RecordLookup(ctx context.Context, rec *LookupRecord) error {
	query := `
		INSERT INTO cache_lookups (
			id, query, cache_key, hit, duration_ms, resolved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.ID,
		rec.Query,
		rec.Key,
		rec.Hit,
		rec.DurationMS,
		rec.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lookup record: %w", err)
	}

	p.logger.Debug("lookup-recorded",
		zap.String("id", rec.ID),
		zap.Bool("hit", rec.Hit))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
