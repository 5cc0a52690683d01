package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fwojciec/prospector"
	proshttp "github.com/fwojciec/prospector/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	run := func(ctx context.Context, runID string, req prospector.RunRequest) {
		if _, err := deps.Pipeline.Run(ctx, runID, req); err != nil {
			deps.Logger.Error("run failed", "run_id", runID, "err", err)
		}
	}

	server := proshttp.NewServer(c.Addr, deps.Runs, run, deps.Logger,
		proshttp.WithReportsDir(c.PublicDir))

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
