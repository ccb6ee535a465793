package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tracking database statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("📊 Job Scout Statistics")
	fmt.Printf("  Jobs tracked:        %d\n", stats.TotalJobsTracked)
	fmt.Printf("  Jobs notified:       %d\n", stats.JobsNotified)
	fmt.Printf("  Unique companies:    %d\n", stats.UniqueCompanies)
	fmt.Printf("  Total runs:          %d\n", stats.TotalRuns)
	fmt.Printf("  Applications:        %d (%d active)\n",
		stats.TotalApplications, stats.ActiveApplications)
	return nil
}
