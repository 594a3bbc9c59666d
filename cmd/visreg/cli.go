package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/visreg"
	"github.com/fwojciec/visreg/compare"
	"github.com/fwojciec/visreg/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB
	Runs   visreg.RunService
	Runner *compare.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB string `help:"Run history database path (overrides VISREG_DB)"`

	Run     RunCmd     `cmd:"" help:"Compare two versions of a site and generate a report"`
	History HistoryCmd `cmd:"" help:"List past comparison runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Source string `arg:"" help:"Base URL of the reference site"`
	Target string `arg:"" help:"Base URL of the site under test"`

	ReportDir   string        `short:"o" default:"regression_report" help:"Directory for screenshots and the report"`
	SitemapPath string        `default:"page-sitemap.xml" help:"Sitemap path relative to each site root"`
	Fallback    string        `help:"Page compared when the target sitemap is empty (default: target root)"`
	Retries     int           `short:"r" default:"2" help:"Total capture attempts per page"`
	Headless    bool          `default:"true" negatable:"" help:"Run the browser headless"`
	Settle      time.Duration `default:"3s" help:"Wait after page load before capturing"`
	Rate        float64       `default:"1" help:"Max captures per second per host"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of runs to list"`
}
