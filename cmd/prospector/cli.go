package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/prospector"
	"github.com/fwojciec/prospector/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Runs     prospector.RunService
	Pipeline *pipeline.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run    RunCmd    `cmd:"" help:"Generate a sales report for a company website"`
	Serve  ServeCmd  `cmd:"" help:"Start the run API server"`
	Status StatusCmd `cmd:"" help:"Show the status of a run"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URL         string `arg:"" help:"Target company website URL"`
	Description string `short:"d" required:"" help:"Description of your company and its offering"`
	Email       string `short:"e" required:"" help:"Email address attached to the run"`
	Webhook     string `help:"Webhook URL notified when the run finishes"`
	PublicDir   string `default:"public" help:"Directory reports are published to"`
	BaseURL     string `default:"http://localhost:8080/reports" help:"URL prefix under which reports are served"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `default:":8080" help:"Listen address"`
	Webhook   string `help:"Webhook URL notified when runs finish"`
	PublicDir string `default:"public" help:"Directory reports are published to"`
	BaseURL   string `default:"http://localhost:8080/reports" help:"URL prefix under which reports are served"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	ID string `arg:"" help:"Run ID"`
}
