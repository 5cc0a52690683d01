package main

import (
	"fmt"

	"github.com/fwojciec/prospector"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prospector.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", run.ID, run.Status, run.URL)
	if run.Results != "" {
		fmt.Fprintln(deps.Stdout, run.Results)
	}
	if run.Errors != "" {
		fmt.Fprintf(deps.Stderr, "errors: %s\n", run.Errors)
	}
	return nil
}
