// Package http provides HTTP-based implementations of prospector services:
// sitemap resolution, page fetching, webhook notification, and the thin
// request boundary that registers runs.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/prospector"
)

// Ensure SitemapService implements prospector.SitemapService.
var _ prospector.SitemapService = (*SitemapService)(nil)

// SitemapService resolves candidate page URLs from a site's sitemap via HTTP.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// resolveState accumulates results across the recursive walk.
type resolveState struct {
	visited  map[string]bool // sitemap URLs already processed (cycle guard)
	seen     map[string]bool // accepted page URLs (exact-match dedupe)
	accepted []string
}

// Resolve fetches siteURL's /sitemap.xml and recursively expands nested
// sitemaps. Individual sitemap fetch and parse errors are non-fatal: URLs
// collected from healthy sitemaps are still returned.
func (s *SitemapService) Resolve(ctx context.Context, siteURL string, limits prospector.SitemapLimits) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limits = limits.WithDefaults()

	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, prospector.Errorf(prospector.EINVALID, "invalid site URL %q: %v", siteURL, err)
	}
	if base.Host == "" {
		return nil, prospector.Errorf(prospector.EINVALID, "site URL %q has no host", siteURL)
	}

	st := &resolveState{
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}

	root := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	s.walk(ctx, root.String(), base, limits, st)

	// Shorter URLs tend to be shallower, more general pages. Ties break
	// lexicographically so the result is deterministic.
	sort.Slice(st.accepted, func(i, j int) bool {
		if len(st.accepted[i]) != len(st.accepted[j]) {
			return len(st.accepted[i]) < len(st.accepted[j])
		}
		return st.accepted[i] < st.accepted[j]
	})
	if len(st.accepted) > limits.MaxURLs {
		st.accepted = st.accepted[:limits.MaxURLs]
	}
	return st.accepted, nil
}

// walk processes one sitemap document, recursing into nested sitemaps.
// Errors are swallowed: a broken sitemap must not invalidate URLs already
// collected from its siblings.
func (s *SitemapService) walk(ctx context.Context, sitemapURL string, base *url.URL, limits prospector.SitemapLimits, st *resolveState) {
	if ctx.Err() != nil || st.visited[sitemapURL] || len(st.accepted) >= limits.MaxURLs {
		return
	}
	st.visited[sitemapURL] = true

	body, err := s.fetch(ctx, sitemapURL)
	if err != nil {
		return
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return
	}
	root := doc.Root()
	if root == nil {
		return
	}

	if root.Tag == "sitemapindex" {
		for _, el := range root.SelectElements("sitemap") {
			if len(st.accepted) >= limits.MaxURLs {
				return
			}
			loc := el.SelectElement("loc")
			if loc == nil {
				continue
			}
			nested := strings.TrimSpace(loc.Text())
			if nested == "" {
				continue
			}
			s.walk(ctx, nested, base, limits, st)
		}
		return
	}

	entries := root.SelectElements("url")
	if len(entries) > limits.MaxURLsPerSitemap {
		// Oversized sitemaps are skipped entirely, not truncated.
		return
	}

	for _, el := range entries {
		if len(st.accepted) >= limits.MaxURLs {
			return
		}
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		pageURL := strings.TrimSpace(loc.Text())
		if pageURL == "" || strings.HasSuffix(pageURL, ".xml") {
			continue
		}
		if !sameOrigin(base, pageURL) {
			continue
		}
		if st.seen[pageURL] {
			continue
		}
		st.seen[pageURL] = true
		st.accepted = append(st.accepted, pageURL)
	}
}

// sameOrigin reports whether rawURL shares scheme and host with base.
func sameOrigin(base *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == base.Scheme && u.Host == base.Host
}

// fetch retrieves a sitemap document body.
func (s *SitemapService) fetch(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}
