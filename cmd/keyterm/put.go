package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/keyterm"
)

// Run executes the put command.
func (c *PutCmd) Run(deps *Dependencies) error {
	data, err := c.read(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	k, err := deps.Codec.DecodeKeyterm(data)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	if err := deps.Keyterms.SaveKeyterm(deps.Ctx, k); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}

	// Saving is best-effort when the tree has nowhere to write, so confirm.
	saved, err := deps.Keyterms.FindKeyterm(deps.Ctx, k.Term)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", keyterm.ErrorMessage(err))
		return err
	}
	if saved == nil {
		fmt.Fprintf(deps.Stderr, "error: keyterm %q was not written. Check that the tree root exists and is writable.\n", k.Term)
		return keyterm.Errorf(keyterm.EINTERNAL, "keyterm %q was not written", k.Term)
	}

	fmt.Fprintf(deps.Stdout, "Saved keyterm %q\n", k.Term)
	return nil
}

func (c *PutCmd) read(stdin io.Reader) ([]byte, error) {
	if c.File == "-" {
		if stdin == nil {
			return nil, keyterm.Errorf(keyterm.EINVALID, "no stdin available")
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(c.File)
}
