package storage

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by logging lookup records.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// RecordLookup logs a lookup record.
func (c *ConsoleStorage) RecordLookup(ctx context.Context, rec *LookupRecord) error {
	c.logger.Info("cache-lookup",
		zap.String("id", rec.ID),
		zap.String("query", rec.Query),
		zap.String("key", rec.Key),
		zap.Bool("hit", rec.Hit),
		zap.Float64("duration-ms", rec.DurationMS),
		zap.Time("resolved-at", rec.ResolvedAt))

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
