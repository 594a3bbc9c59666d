package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/visreg"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, visreg.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", visreg.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'visreg run' to compare two sites.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s -> %s  pages=%d failures=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.SourceSite, r.TargetSite, r.Pages, r.Failures)
	}

	return nil
}
