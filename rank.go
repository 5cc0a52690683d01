package prospector

import (
	"context"
	"strings"
)

// InclusionThreshold is the likelihood above which a ranked page joins the
// company or people candidate sets. The sets may overlap.
const InclusionThreshold = 0.7

// RankBatchSize is the number of URLs submitted per LLM classification request.
const RankBatchSize = 20

// RankedPage scores a URL's likelihood of carrying company-descriptive or
// personnel content.
type RankedPage struct {
	URL               string  `json:"url"`
	CompanyLikelihood float64 `json:"company_likelihood"`
	PeopleLikelihood  float64 `json:"people_likelihood"`
}

// Validate returns an error if the page contains invalid fields.
func (p *RankedPage) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "ranked page URL required")
	}
	if p.CompanyLikelihood < 0 || p.CompanyLikelihood > 1 {
		return Errorf(EINVALID, "company likelihood %v out of range [0,1]", p.CompanyLikelihood)
	}
	if p.PeopleLikelihood < 0 || p.PeopleLikelihood > 1 {
		return Errorf(EINVALID, "people likelihood %v out of range [0,1]", p.PeopleLikelihood)
	}
	return nil
}

// CompanyCandidate reports whether the page passes the company threshold.
func (p *RankedPage) CompanyCandidate() bool {
	return p.CompanyLikelihood > InclusionThreshold
}

// PeopleCandidate reports whether the page passes the people threshold.
func (p *RankedPage) PeopleCandidate() bool {
	return p.PeopleLikelihood > InclusionThreshold
}

// Ranker scores URLs via batched LLM classification.
type Ranker interface {
	// RankURLs submits the URLs in fixed-size batches and returns a likelihood
	// pair per URL. A failed batch is retried once, then skipped; its URLs are
	// simply absent from the result.
	RankURLs(ctx context.Context, urls []string) ([]RankedPage, error)
}

// Keyword lists for deterministic URL tagging. Matching bypasses the LLM.
var (
	peopleKeywords  = []string{"team", "people", "staff", "leadership", "executive", "management"}
	companyKeywords = []string{"about", "info", "company", "home"}
)

// KeywordRank tags a URL by substring match against personnel- and
// company-indicating keywords. A URL can receive both tags. The second return
// is false when no keyword matched and the URL needs LLM classification.
func KeywordRank(url string) (RankedPage, bool) {
	lower := strings.ToLower(url)
	page := RankedPage{URL: url}
	matched := false
	for _, kw := range peopleKeywords {
		if strings.Contains(lower, kw) {
			page.PeopleLikelihood = 1
			matched = true
			break
		}
	}
	for _, kw := range companyKeywords {
		if strings.Contains(lower, kw) {
			page.CompanyLikelihood = 1
			matched = true
			break
		}
	}
	return page, matched
}

// MergeRanked combines keyword-derived and LLM-derived rankings into a single
// list deduplicated by URL. Keyword entries take priority over LLM entries for
// the same URL; within a source, last wins. Order follows first appearance.
func MergeRanked(keyword, ranked []RankedPage) []RankedPage {
	idx := make(map[string]int)
	var out []RankedPage
	for _, p := range ranked {
		if i, ok := idx[p.URL]; ok {
			out[i] = p
			continue
		}
		idx[p.URL] = len(out)
		out = append(out, p)
	}
	for _, p := range keyword {
		if i, ok := idx[p.URL]; ok {
			out[i] = p
			continue
		}
		idx[p.URL] = len(out)
		out = append(out, p)
	}
	return out
}

// SelectCandidates returns the pages whose company or people likelihood passes
// the inclusion threshold, preserving input order.
func SelectCandidates(pages []RankedPage) []RankedPage {
	var out []RankedPage
	for _, p := range pages {
		if p.CompanyCandidate() || p.PeopleCandidate() {
			out = append(out, p)
		}
	}
	return out
}
