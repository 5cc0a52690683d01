package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/prospector/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("FirstRequestIsImmediate", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(1)

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("DomainsAreIndependent", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))

		// The first request to a different domain is not throttled by the
		// previous domain's bucket.
		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))
		assert.Less(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("SameDomainIsThrottled", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(20)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
	})

	t.Run("CanceledContextReturnsError", func(t *testing.T) {
		t.Parallel()

		limiter := pipeline.NewDomainLimiter(0.001)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		require.Error(t, limiter.Wait(ctx, "example.com"))
	})
}
