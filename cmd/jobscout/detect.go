package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobscout/internal/platform"
)

var detectCmd = &cobra.Command{
	Use:   "detect <career-url>",
	Short: "Show which platform adapter a career URL maps to",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	url := args[0]
	p := platform.Detect(url)
	fmt.Printf("Platform: %s\n", p)

	if slug, ok := platform.ExtractIdentifier(url, p); ok {
		fmt.Printf("Identifier: %s\n", slug)
	} else {
		fmt.Println("Identifier: none (generic scraping)")
	}
	return nil
}
