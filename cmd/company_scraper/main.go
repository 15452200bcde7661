// Package main provides the company_scraper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "company_scraper",
	Short: "Scrape company attributes from profile pages",
	Long:  "company_scraper reads a list of companies from CSV, fetches each profile page, extracts founding year, founders, headcount, location and open roles from its description, and writes the results as JSON.",

	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
