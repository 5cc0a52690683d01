package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospector"
)

// Ensure LoggingRanker implements prospector.Ranker.
var _ prospector.Ranker = (*LoggingRanker)(nil)

// LoggingRanker wraps a Ranker with debug logging.
type LoggingRanker struct {
	next   prospector.Ranker
	logger *slog.Logger
}

// NewLoggingRanker creates a new LoggingRanker.
func NewLoggingRanker(next prospector.Ranker, logger *slog.Logger) *LoggingRanker {
	return &LoggingRanker{next: next, logger: logger}
}

// RankURLs delegates to the wrapped ranker and logs the operation.
func (r *LoggingRanker) RankURLs(ctx context.Context, urls []string) (pages []prospector.RankedPage, err error) {
	defer func(begin time.Time) {
		r.logger.Info("url ranking",
			"submitted", len(urls),
			"ranked", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RankURLs(ctx, urls)
}
