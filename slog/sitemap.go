// Package slog provides logging decorators for prospector services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospector"
)

// Ensure LoggingSitemapService implements prospector.SitemapService.
var _ prospector.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with debug logging.
type LoggingSitemapService struct {
	next   prospector.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next prospector.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// Resolve delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) Resolve(ctx context.Context, siteURL string, limits prospector.SitemapLimits) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap resolution",
			"url", siteURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Resolve(ctx, siteURL, limits)
}
