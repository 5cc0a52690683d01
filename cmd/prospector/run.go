package main

import (
	"fmt"

	"github.com/fwojciec/prospector"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	req := prospector.RunRequest{
		CompanyDescription: c.Description,
		URL:                c.URL,
		Email:              c.Email,
	}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prospector.ErrorMessage(err))
		return err
	}

	runID, err := deps.Runs.CreateRun(deps.Ctx, req.Email, req.CompanyDescription, req.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prospector.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "run %s started for %s\n", runID, req.URL)

	result, err := deps.Pipeline.Run(deps.Ctx, runID, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prospector.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "report for %s: %s\n", result.Company, result.ReportURL)
	return nil
}
