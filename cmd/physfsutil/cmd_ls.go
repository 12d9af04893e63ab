package main

import (
	"fmt"
	"path"
	"sort"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

func newLsCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List files and directories in the search path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "/"
			if len(args) > 0 {
				dir = args[0]
			}

			return lsWalk(dir, recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "recurse into subdirectories")

	return cmd
}

func lsWalk(dir string, recursive bool) error {
	names, err := physfs.EnumerateFiles(dir)
	if err != nil {
		return fmt.Errorf("enumerate %q: %w", dir, err)
	}
	sort.Strings(names)

	for _, name := range names {
		full := path.Join(dir, name)

		if physfs.IsDirectory(full) {
			fmt.Printf("%s/\n", full)
			if recursive {
				if err := lsWalk(full, recursive); err != nil {
					return err
				}
			}

			continue
		}

		st, err := physfs.StatFile(full)
		if err != nil {
			fmt.Printf("%s\t(stat error: %v)\n", full, err)

			continue
		}
		fmt.Printf("%s\t%d bytes\n", full, st.Filesize)
	}

	return nil
}
