package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospector"
)

// Ensure LoggingIndex implements prospector.Index.
var _ prospector.Index = (*LoggingIndex)(nil)

// LoggingIndex wraps an Index with debug logging on the write and query
// paths.
type LoggingIndex struct {
	next   prospector.Index
	logger *slog.Logger
}

// NewLoggingIndex creates a new LoggingIndex.
func NewLoggingIndex(next prospector.Index, logger *slog.Logger) *LoggingIndex {
	return &LoggingIndex{next: next, logger: logger}
}

// CollectionExists delegates to the wrapped index.
func (i *LoggingIndex) CollectionExists(ctx context.Context, name string) (bool, error) {
	return i.next.CollectionExists(ctx, name)
}

// EnsureCollection delegates to the wrapped index.
func (i *LoggingIndex) EnsureCollection(ctx context.Context, name string, dim int) error {
	return i.next.EnsureCollection(ctx, name, dim)
}

// Upsert delegates to the wrapped index and logs the operation.
func (i *LoggingIndex) Upsert(ctx context.Context, name string, chunks []prospector.ContentChunk) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("index upsert",
			"collection", name,
			"chunks", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Upsert(ctx, name, chunks)
}

// Query delegates to the wrapped index and logs the operation.
func (i *LoggingIndex) Query(ctx context.Context, name, query string, filter *prospector.QueryFilter, topK int) (matches []prospector.Match, err error) {
	defer func(begin time.Time) {
		i.logger.Debug("index query",
			"collection", name,
			"matches", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Query(ctx, name, query, filter, topK)
}
