package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/prospector"
	main "github.com/fwojciec/prospector/cmd/prospector"
	"github.com/fwojciec/prospector/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd(t *testing.T) {
	t.Parallel()

	t.Run("PrintsRunStatus", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs: &mock.RunService{
				FindRunByIDFn: func(ctx context.Context, id string) (*prospector.Run, error) {
					return &prospector.Run{
						ID:      id,
						URL:     "https://acme.example",
						Status:  prospector.RunSuccess,
						Results: `{"status":"success"}`,
					}, nil
				},
			},
		}

		cmd := &main.StatusCmd{ID: "run-1"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "run-1")
		assert.Contains(t, stdout.String(), "Success")
		assert.Contains(t, stdout.String(), `{"status":"success"}`)
		assert.Empty(t, stderr.String())
	})

	t.Run("UnknownRunReturnsError", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs: &mock.RunService{
				FindRunByIDFn: func(ctx context.Context, id string) (*prospector.Run, error) {
					return nil, prospector.Errorf(prospector.ENOTFOUND, "run %q not found", id)
				},
			},
		}

		cmd := &main.StatusCmd{ID: "missing"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, prospector.ENOTFOUND, prospector.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})

	t.Run("ErrorsGoToStderr", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs: &mock.RunService{
				FindRunByIDFn: func(ctx context.Context, id string) (*prospector.Run, error) {
					return &prospector.Run{
						ID:     id,
						URL:    "https://acme.example",
						Status: prospector.RunError,
						Errors: "sitemap unreachable",
					}, nil
				},
			},
		}

		cmd := &main.StatusCmd{ID: "run-2"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Error")
		assert.Contains(t, stderr.String(), "sitemap unreachable")
	})
}
