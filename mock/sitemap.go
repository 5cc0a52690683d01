// Package mock provides function-field mock implementations of prospector
// service interfaces for use in tests.
package mock

import (
	"context"

	"github.com/fwojciec/prospector"
)

var _ prospector.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of prospector.SitemapService.
type SitemapService struct {
	ResolveFn func(ctx context.Context, siteURL string, limits prospector.SitemapLimits) ([]string, error)
}

func (s *SitemapService) Resolve(ctx context.Context, siteURL string, limits prospector.SitemapLimits) ([]string, error) {
	return s.ResolveFn(ctx, siteURL, limits)
}
