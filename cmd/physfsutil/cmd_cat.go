package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a file's contents to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := physfs.OpenRead(args[0])
			if err != nil {
				return fmt.Errorf("open %q: %w", args[0], err)
			}
			defer f.Close() //nolint:errcheck

			if _, err := io.Copy(os.Stdout, f); err != nil {
				return fmt.Errorf("read %q: %w", args[0], err)
			}

			return nil
		},
	}
}
