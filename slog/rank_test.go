package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/prospector"
	"github.com/fwojciec/prospector/mock"
	prospectorslog "github.com/fwojciec/prospector/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRanker_RankURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Ranker{
		RankURLsFn: func(ctx context.Context, urls []string) ([]prospector.RankedPage, error) {
			return []prospector.RankedPage{{URL: urls[0], CompanyLikelihood: 0.9}}, nil
		},
	}

	r := prospectorslog.NewLoggingRanker(inner, logger)
	pages, err := r.RankURLs(context.Background(), []string{"https://example.com/about", "https://example.com/x"})

	require.NoError(t, err)
	assert.Len(t, pages, 1)
	output := buf.String()
	assert.Contains(t, output, "url ranking")
	assert.Contains(t, output, "submitted=2")
	assert.Contains(t, output, "ranked=1")
}
