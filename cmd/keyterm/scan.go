package main

import (
	"fmt"

	"github.com/fwojciec/keyterm"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	results, err := deps.Keyterms.ScanKeyterms(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No keyterms found.")
		return nil
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.Name, keyterm.ErrorMessage(r.Err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s\t%s\n", r.Name, r.Keyterm.Term)
	}

	if failed > 0 {
		return keyterm.Errorf(keyterm.EINVALID, "%d of %d keyterms could not be read", failed, len(results))
	}
	return nil
}
