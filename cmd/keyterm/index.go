package main

import (
	"fmt"

	"github.com/fwojciec/keyterm"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	report, err := deps.Indexer.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	for _, f := range report.Failures {
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", f.Name, keyterm.ErrorMessage(f.Err))
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d, unchanged %d, removed %d, failed %d\n",
		report.Indexed, report.Unchanged, report.Removed, len(report.Failures))
	return nil
}
