// Package main provides the jobscout CLI: scrape career pages, score the
// listings against a skill profile, and deliver alerts.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Multi-platform job listing scout",
	Long: "jobscout scrapes employer career pages across a dozen applicant " +
		"tracking systems, scores listings against a configured skill profile, " +
		"and sends alerts for new matches.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
