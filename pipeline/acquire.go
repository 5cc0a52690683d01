package pipeline

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/prospector"
	"golang.org/x/sync/errgroup"
)

// acquire fetches the candidate pages concurrently and converts them to
// cleaned Markdown. Per-page failures are logged and skipped; boilerplate
// shared by every page (headers, footers) is stripped across the corpus.
func (p *Pipeline) acquire(ctx context.Context, candidates []prospector.RankedPage) ([]*prospector.Page, error) {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*prospector.Page, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			page, err := p.acquirePage(gctx, candidate)
			if err != nil {
				p.logger().Warn("skipping page", "url", candidate.URL, "err", err)
				return nil
			}
			results[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pages []*prospector.Page
	for _, page := range results {
		if page != nil {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "no page content acquired")
	}

	// Strip boilerplate shared across the whole corpus, then drop pages
	// that were nothing but boilerplate.
	contents := make([]string, len(pages))
	for i, page := range pages {
		contents[i] = page.Content
	}
	contents = prospector.StripCommonAffixes(contents)

	var kept []*prospector.Page
	for i, page := range pages {
		page.Content = contents[i]
		if strings.TrimSpace(page.Content) != "" {
			kept = append(kept, page)
		}
	}
	if len(kept) == 0 {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "no page content acquired")
	}
	return kept, nil
}

// acquirePage fetches one page and converts it to cleaned Markdown.
func (p *Pipeline) acquirePage(ctx context.Context, candidate prospector.RankedPage) (*prospector.Page, error) {
	if u, err := url.Parse(candidate.URL); err == nil && p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, candidate.URL, p.Fetcher.Fetch, nil, delays)
	if err != nil {
		return nil, err
	}

	extracted, err := p.extractContent(html)
	if err != nil {
		return nil, err
	}

	markdown, err := p.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}

	content := prospector.CleanText(markdown)
	if content == "" {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "page yielded no content")
	}

	return &prospector.Page{
		URL:               candidate.URL,
		Title:             extracted.Title,
		Content:           content,
		CompanyLikelihood: candidate.CompanyLikelihood,
		PeopleLikelihood:  candidate.PeopleLikelihood,
	}, nil
}

// extractContent runs the primary extractor, falling back to the secondary
// one when the primary fails or yields an empty region.
func (p *Pipeline) extractContent(html string) (*prospector.ExtractResult, error) {
	extracted, err := p.Extractor.Extract(html)
	if err == nil && strings.TrimSpace(extracted.ContentHTML) != "" {
		return extracted, nil
	}
	if p.Fallback == nil {
		if err != nil {
			return nil, err
		}
		return nil, prospector.Errorf(prospector.ENOTFOUND, "extractor yielded no content")
	}
	return p.Fallback.Extract(html)
}
