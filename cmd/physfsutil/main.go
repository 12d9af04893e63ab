/*
physfsutil is a command-line front end for the physfs-go search path: it
mounts one or more directories/archives and lets you list, read, extract,
stat, or verify files across the combined virtual filesystem.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

// Version is the program version (filled in from the build).
var Version string

var mounts []string

func main() {
	root := &cobra.Command{
		Use:           "physfsutil",
		Short:         "Inspect and extract from a physfs-go search path",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupSearchPath()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return physfs.Deinit()
		},
	}

	root.PersistentFlags().StringArrayVarP(&mounts, "mount", "m", nil, "directory or archive to mount read-only (repeatable, first wins)")

	root.AddCommand(
		newLsCmd(),
		newCatCmd(),
		newStatCmd(),
		newExtractCmd(),
		newVerifyCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupSearchPath() error {
	if err := physfs.Init(os.Args[0]); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	for _, m := range mounts {
		if err := physfs.Mount(m, "/", false); err != nil {
			return fmt.Errorf("mount %q: %w", m, err)
		}
	}

	return nil
}
