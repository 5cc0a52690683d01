// Package pipeline orchestrates a full report run: sitemap resolution,
// relevance classification, content acquisition, index construction, the
// extraction agent, and report rendering.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/prospector"
)

// DefaultConcurrency is the default number of concurrent page fetches.
const DefaultConcurrency = 5

// DefaultFetchRPS is the default per-domain fetch rate.
const DefaultFetchRPS = 4.0

// Pipeline wires the services that together produce a sales report for a
// target company website.
type Pipeline struct {
	Sitemaps  prospector.SitemapService
	Ranker    prospector.Ranker
	Fetcher   prospector.Fetcher
	Extractor prospector.Extractor
	// Fallback is tried when Extractor fails or yields no content.
	Fallback  prospector.Extractor
	Converter prospector.Converter
	Index     prospector.Index
	Embedder  prospector.Embedder
	Generator prospector.Generator
	Runs      prospector.RunService
	Blobs     prospector.BlobStore
	Renderer  prospector.Renderer
	Notifier  prospector.Notifier

	// Favicon extracts a favicon URL from the site's root page HTML.
	// Optional; reports render without a favicon when nil.
	Favicon func(html, baseURL string) string

	Limiter       *DomainLimiter
	Logger        *slog.Logger
	Concurrency   int
	RetryDelays   []time.Duration
	SitemapLimits prospector.SitemapLimits

	lockInit sync.Once
	locks    *collectionLocks
}

// Run executes a full report run for a previously registered run ID. The
// returned result mirrors what is stored on the run and posted to the
// notification webhook. On failure the run is moved to the Error state, the
// webhook is still notified, and the error is returned.
func (p *Pipeline) Run(ctx context.Context, runID string, req prospector.RunRequest) (*prospector.RunResult, error) {
	if err := req.Validate(); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	collection, err := prospector.CollectionName(req.URL)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	if err := p.setStatus(ctx, runID, prospector.RunStarted); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	if err := p.buildIndex(ctx, collection, req); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	if err := p.setStatus(ctx, runID, prospector.RunGettingPeopleInfo); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	profile, appendix, err := p.companyProfile(ctx, collection)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	people, err := p.people(ctx, collection, profile.Name, appendix)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	if err := p.setStatus(ctx, runID, prospector.RunGeneratingStrategy); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	strategy, err := p.strategy(ctx, req.CompanyDescription, profile, people)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	if err := p.setStatus(ctx, runID, prospector.RunGeneratingPDF); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	report := &prospector.Report{
		Company:      profile,
		Strategy:     strategy,
		People:       people,
		AppendixURLs: appendix.urls,
		FaviconURL:   p.faviconURL(ctx, req.URL),
	}

	pdfPath, err := p.Renderer.Render(ctx, report)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	reportURL, err := p.Blobs.Upload(ctx, pdfPath)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	result := &prospector.RunResult{
		Message:   "report generated",
		ReportURL: reportURL,
		Email:     req.Email,
		Company:   profile.Name,
		Status:    "success",
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}
	if err := p.Runs.UpdateStatus(ctx, runID, prospector.RunSuccess, string(payload), ""); err != nil {
		return nil, p.fail(ctx, runID, req, err)
	}

	p.notify(ctx, result)
	return result, nil
}

// buildIndex constructs the per-domain index unless it already exists.
// Builds for the same collection are serialized so that concurrent runs
// against one domain don't duplicate the work.
func (p *Pipeline) buildIndex(ctx context.Context, collection string, req prospector.RunRequest) error {
	p.lockInit.Do(func() { p.locks = newCollectionLocks() })
	unlock := p.locks.acquire(collection)
	defer unlock()

	exists, err := p.Index.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		p.logger().Info("index cache hit", "collection", collection)
		return nil
	}

	limits := p.SitemapLimits.WithDefaults()
	urls, err := p.Sitemaps.Resolve(ctx, req.URL, limits)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return prospector.Errorf(prospector.ENOTFOUND, "no URLs found in sitemap for %s", req.URL)
	}

	candidates, err := p.classify(ctx, urls)
	if err != nil {
		return err
	}

	pages, err := p.acquire(ctx, candidates)
	if err != nil {
		return err
	}

	chunks := prospector.BuildChunks(pages, prospector.ChunkSize)
	if len(chunks) == 0 {
		return prospector.Errorf(prospector.ENOTFOUND, "no indexable content found for %s", req.URL)
	}

	if err := p.Index.EnsureCollection(ctx, collection, p.Embedder.Dimensions()); err != nil {
		return err
	}
	return p.Index.Upsert(ctx, collection, chunks)
}

// faviconURL fetches the site's root page and extracts its favicon URL.
// Best effort: any failure yields an empty string.
func (p *Pipeline) faviconURL(ctx context.Context, siteURL string) string {
	if p.Favicon == nil {
		return ""
	}
	html, err := p.Fetcher.Fetch(ctx, siteURL)
	if err != nil {
		p.logger().Warn("favicon fetch failed", "url", siteURL, "err", err)
		return p.Favicon("", siteURL)
	}
	return p.Favicon(html, siteURL)
}

// setStatus advances the run's status without payloads.
func (p *Pipeline) setStatus(ctx context.Context, runID string, status prospector.RunStatus) error {
	return p.Runs.UpdateStatus(ctx, runID, status, "", "")
}

// fail moves the run to the Error state, notifies the webhook, and returns
// the original error.
func (p *Pipeline) fail(ctx context.Context, runID string, req prospector.RunRequest, cause error) error {
	result := &prospector.RunResult{
		Message: prospector.ErrorMessage(cause),
		Email:   req.Email,
		Status:  "error",
	}

	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte("{}")
	}
	if err := p.Runs.UpdateStatus(ctx, runID, prospector.RunError, string(payload), cause.Error()); err != nil {
		p.logger().Error("recording run failure", "run_id", runID, "err", err)
	}

	p.notify(ctx, result)
	return cause
}

// notify posts the result to the webhook. Delivery failure never fails the
// run.
func (p *Pipeline) notify(ctx context.Context, result *prospector.RunResult) {
	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.Notify(ctx, result); err != nil {
		p.logger().Warn("webhook notification failed", "err", err)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
