package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/prospector/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("FirstAttemptSucceeds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "content", nil
		}

		html, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, pipeline.DefaultRetryDelays())
		require.NoError(t, err)
		assert.Equal(t, "content", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "content", nil
		}

		var logs []string
		logf := func(format string, args ...any) {
			logs = append(logs, fmt.Sprintf(format, args...))
		}

		delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
		html, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, logf, delays)
		require.NoError(t, err)
		assert.Equal(t, "content", html)
		assert.Equal(t, 3, calls)
		assert.Len(t, logs, 2)
	})

	t.Run("ExhaustedRetriesReturnLastError", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", fmt.Errorf("attempt %d failed", calls)
		}

		delays := []time.Duration{time.Millisecond, time.Millisecond}
		_, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, delays)
		require.Error(t, err)
		assert.EqualError(t, err, "attempt 3 failed")
		assert.Equal(t, 3, calls)
	})

	t.Run("NoDelaysMeansSingleAttempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", errors.New("nope")
		}

		_, err := pipeline.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, nil, nil)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContextStopsRetrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", errors.New("transient")
		}

		delays := []time.Duration{time.Second}
		_, err := pipeline.FetchWithRetryDelays(ctx, "https://example.com", fetch, nil, delays)
		require.ErrorIs(t, err, context.Canceled)
	})
}
