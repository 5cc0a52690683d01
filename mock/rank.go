package mock

import (
	"context"

	"github.com/fwojciec/prospector"
)

var _ prospector.Ranker = (*Ranker)(nil)

// Ranker is a mock implementation of prospector.Ranker.
type Ranker struct {
	RankURLsFn func(ctx context.Context, urls []string) ([]prospector.RankedPage, error)
}

func (r *Ranker) RankURLs(ctx context.Context, urls []string) ([]prospector.RankedPage, error) {
	return r.RankURLsFn(ctx, urls)
}
