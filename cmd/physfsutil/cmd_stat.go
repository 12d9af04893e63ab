package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <file>",
		Short: "Print a file's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := physfs.StatFile(args[0])
			if err != nil {
				return fmt.Errorf("stat %q: %w", args[0], err)
			}

			fmt.Printf("size:        %d\n", st.Filesize)
			fmt.Printf("type:        %s\n", fileTypeString(st.FileType))
			fmt.Printf("modified:    %d\n", st.ModTime)
			fmt.Printf("read-only:   %t\n", st.ReadOnly)
			fmt.Printf("real dir:    %s\n", physfs.GetRealDir(args[0]))

			return nil
		},
	}
}

func fileTypeString(t physfs.FileType) string {
	switch t {
	case physfs.TypeDirectory:
		return "directory"
	case physfs.TypeSymlink:
		return "symlink"
	case physfs.TypeRegular:
		return "regular"
	default:
		return "other"
	}
}
