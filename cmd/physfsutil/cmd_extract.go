package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <dir> <destination>",
		Short: "Recursively copy a virtual directory out to a native destination",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(_ *cobra.Command, args []string) error {
			return extractWalk(args[0], args[1])
		},
	}
}

func extractWalk(dir, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("mkdir %q: %w", dest, err)
	}

	names, err := physfs.EnumerateFiles(dir)
	if err != nil {
		return fmt.Errorf("enumerate %q: %w", dir, err)
	}

	for _, name := range names {
		src := path.Join(dir, name)
		dst := filepath.Join(dest, name)

		if physfs.IsDirectory(src) {
			if err := extractWalk(src, dst); err != nil {
				return err
			}

			continue
		}

		if err := extractFile(src, dst); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(src, dst string) error {
	in, err := physfs.OpenRead(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dst) //nolint:gosec
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %q: %w", src, err)
	}

	return nil
}
