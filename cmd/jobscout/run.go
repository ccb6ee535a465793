package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scrape-match-notify cycle",
	RunE:  runRun,
}

var sourceFiles []string

func init() {
	runCmd.Flags().StringSliceVarP(&sourceFiles, "sources", "s", nil, "Company CSV files (repeatable)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	sources, err := loadSources(d.cfg, sourceFiles)
	if err != nil {
		return err
	}

	report, err := d.pipeline.Run(ctx, sources)
	if err != nil {
		return err
	}

	fmt.Printf("Scraped %d companies: %d jobs found, %d matched, %d new, %d errors\n",
		report.CompaniesScraped, report.TotalFound, report.Matched,
		report.NewMatches, report.Errors)
	return nil
}
