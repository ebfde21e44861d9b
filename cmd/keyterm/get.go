package main

import (
	"fmt"

	"github.com/fwojciec/keyterm"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	k, err := deps.Keyterms.FindKeyterm(deps.Ctx, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}
	if k == nil {
		fmt.Fprintf(deps.Stderr, "error: keyterm %q not found. Use 'keyterm scan' to see available keyterms.\n", c.Dir)
		return keyterm.Errorf(keyterm.ENOTFOUND, "keyterm %q not found", c.Dir)
	}

	data, err := deps.Codec.EncodeKeyterm(k)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
