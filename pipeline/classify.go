package pipeline

import (
	"context"

	"github.com/fwojciec/prospector"
)

// classify scores the URLs and returns those likely to carry company or
// personnel content. URLs with an unambiguous keyword match bypass the LLM;
// the rest are ranked in batches.
func (p *Pipeline) classify(ctx context.Context, urls []string) ([]prospector.RankedPage, error) {
	var keyword []prospector.RankedPage
	var unresolved []string
	for _, u := range urls {
		if page, ok := prospector.KeywordRank(u); ok {
			keyword = append(keyword, page)
		} else {
			unresolved = append(unresolved, u)
		}
	}

	var ranked []prospector.RankedPage
	if len(unresolved) > 0 {
		var err error
		ranked, err = p.Ranker.RankURLs(ctx, unresolved)
		if err != nil {
			return nil, err
		}
	}

	candidates := prospector.SelectCandidates(prospector.MergeRanked(keyword, ranked))
	if len(candidates) == 0 {
		return nil, prospector.Errorf(prospector.ENOTFOUND, "no relevant pages found")
	}
	return candidates, nil
}
