package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-physfs/physfs"
)

func newServeCmd() *cobra.Command {
	var (
		org           string
		app           string
		archiveExt    string
		includeCdroms bool
		archivesFirst bool
	)

	cmd := &cobra.Command{
		Use:   "sane-config",
		Short: "Apply the conventional org/app write-dir and search-path layout",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := physfs.SetSaneConfig(org, app, archiveExt, includeCdroms, archivesFirst); err != nil {
				return fmt.Errorf("sane config: %w", err)
			}

			fmt.Printf("write dir:   %s\n", physfs.GetWriteDir())
			for _, s := range physfs.GetSearchPath() {
				fmt.Printf("search path: %s\n", s)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization name, for the preferences directory")
	cmd.Flags().StringVar(&app, "app", "", "application name, for the preferences directory")
	cmd.Flags().StringVar(&archiveExt, "archive-ext", "", "archive extension to auto-mount alongside the base directory")
	cmd.Flags().BoolVar(&includeCdroms, "include-cdroms", false, "also add detected CD/DVD-ROM volumes to the search path")
	cmd.Flags().BoolVar(&archivesFirst, "archives-first", false, "search matching archives before plain directories")

	return cmd
}
