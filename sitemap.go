package prospector

import "context"

// Default bounds for sitemap resolution.
const (
	// DefaultMaxURLs caps the total number of URLs collected per run.
	DefaultMaxURLs = 10000

	// DefaultMaxURLsPerSitemap caps the size of a single sitemap document.
	// A sitemap exceeding this is skipped entirely, not truncated.
	DefaultMaxURLsPerSitemap = 1000
)

// SitemapLimits bounds the cost of a sitemap resolution run.
type SitemapLimits struct {
	MaxURLs           int
	MaxURLsPerSitemap int
}

// WithDefaults returns the limits with zero values replaced by defaults.
func (l SitemapLimits) WithDefaults() SitemapLimits {
	if l.MaxURLs <= 0 {
		l.MaxURLs = DefaultMaxURLs
	}
	if l.MaxURLsPerSitemap <= 0 {
		l.MaxURLsPerSitemap = DefaultMaxURLsPerSitemap
	}
	return l
}

// SitemapService discovers candidate page URLs from a site's sitemap.
type SitemapService interface {
	// Resolve fetches siteURL's sitemap.xml and recursively expands nested
	// sitemaps into a deduplicated set of page URLs. Only URLs on the same
	// origin as siteURL are accepted, and URLs ending in .xml are excluded.
	// The result is sorted by string length ascending (shorter paths tend to
	// be more general pages) and truncated to the URL budget.
	//
	// A fetch error for an individual sitemap is non-fatal; partial results
	// are returned. An empty result is not an error.
	Resolve(ctx context.Context, siteURL string, limits SitemapLimits) ([]string, error)
}
