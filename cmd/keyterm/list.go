package main

import (
	"fmt"

	"github.com/fwojciec/keyterm"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := keyterm.IndexFilter{}
	if c.Term != "" {
		filter.Term = &c.Term
	}

	entries, err := deps.Index.FindEntries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No keyterms indexed. Use 'keyterm index' to build the index.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", e.DirName, e.Term, e.FilePath)
	}

	return nil
}
