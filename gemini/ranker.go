package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/prospector"
	"google.golang.org/genai"
)

// Ensure Ranker implements prospector.Ranker at compile time.
var _ prospector.Ranker = (*Ranker)(nil)

// Ranker classifies URLs by likelihood of carrying company or personnel
// content, using structured-output Gemini calls in fixed-size batches.
type Ranker struct {
	client *genai.Client
	logger *slog.Logger
}

// NewRanker creates a new Ranker. If logger is nil, slog.Default is used.
func NewRanker(client *genai.Client, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{client: client, logger: logger}
}

// RankURLs scores the URLs in batches. A failed batch is retried once and
// then skipped; its URLs are absent from the result.
func (r *Ranker) RankURLs(ctx context.Context, urls []string) ([]prospector.RankedPage, error) {
	var out []prospector.RankedPage
	for start := 0; start < len(urls); start += prospector.RankBatchSize {
		end := start + prospector.RankBatchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := urls[start:end]

		pages, err := r.rankBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			pages, err = r.rankBatch(ctx, batch)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("skipping unrankable URL batch", "size", len(batch), "err", err)
			continue
		}
		out = append(out, pages...)
	}
	return out, nil
}

func (r *Ranker) rankBatch(ctx context.Context, urls []string) ([]prospector.RankedPage, error) {
	result, err := r.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildRankPrompt(urls)}},
		}},
		BuildRankConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, prospector.Errorf(prospector.EINTERNAL, "gemini returned nil result")
	}
	return ParseRankResponse(result.Text(), urls)
}

// BuildRankPrompt builds the classification prompt for a batch of URLs.
func BuildRankPrompt(urls []string) string {
	var sb strings.Builder
	sb.WriteString("You are classifying website URLs for a sales research tool.\n")
	sb.WriteString("For each URL below, estimate two probabilities between 0 and 1:\n")
	sb.WriteString("- company_likelihood: the page describes the company itself (who they are, what they do, their history or mission).\n")
	sb.WriteString("- people_likelihood: the page lists or profiles the people working at the company.\n")
	sb.WriteString("Apply these rules:\n")
	sb.WriteString("- The site root and paths like \"about\", \"info\", \"company\", or \"home\" get company_likelihood 1.\n")
	sb.WriteString("- Paths like \"team\", \"people\", \"staff\", \"leadership\", \"management\", or a person's name as a slug (e.g. \"john-doe\") get people_likelihood 1.\n")
	sb.WriteString("- Blog posts, customer stories, case studies, contact pages, careers or job listings, news, events, and partner pages get 0 for both.\n")
	sb.WriteString("Judge from the URL path alone. Return one entry per URL, preserving the URL exactly as given.\n\n")
	sb.WriteString("<urls>\n")
	for _, u := range urls {
		fmt.Fprintf(&sb, "%s\n", u)
	}
	sb.WriteString("</urls>\n")
	return sb.String()
}

// BuildRankConfig returns the structured-output config for ranking calls.
func BuildRankConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"url":                {Type: genai.TypeString},
					"company_likelihood": {Type: genai.TypeNumber},
					"people_likelihood":  {Type: genai.TypeNumber},
				},
				Required: []string{"url", "company_likelihood", "people_likelihood"},
			},
		},
	}
}

// ParseRankResponse decodes and validates a ranking response. Every entry
// must reference a URL from the submitted batch; a fabricated URL rejects
// the whole response so the batch gets retried rather than polluting the
// candidate set.
func ParseRankResponse(raw string, urls []string) ([]prospector.RankedPage, error) {
	pages, err := prospector.ParseJSON[[]prospector.RankedPage](raw)
	if err != nil {
		return nil, err
	}
	submitted := make(map[string]bool, len(urls))
	for _, u := range urls {
		submitted[u] = true
	}
	for i := range pages {
		if err := pages[i].Validate(); err != nil {
			return nil, err
		}
		if !submitted[pages[i].URL] {
			return nil, prospector.Errorf(prospector.EINVALID, "response ranks URL %q that was not submitted", pages[i].URL)
		}
	}
	return pages, nil
}
