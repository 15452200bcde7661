package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/company-scraper/internal/extract"
	"github.com/jonathan/company-scraper/internal/observability"
	"github.com/jonathan/company-scraper/internal/sink"
	"github.com/jonathan/company-scraper/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the attribute patterns on a description",
	Long:  "Applies the attribute extraction patterns to a description given inline or read from a file and prints the resulting record.",
	RunE:  runExtract,
}

var (
	extractText   string
	extractFile   string
	extractName   string
	extractPretty bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractText, "text", "t", "", "Description text")
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a file containing the description text")
	extractCmd.Flags().StringVarP(&extractName, "name", "n", "", "Company name to attach to the record")
	extractCmd.Flags().BoolVar(&extractPretty, "pretty", false, "Print a summary box instead of JSON")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractText == "" && extractFile == "" {
		return fmt.Errorf("either --text or --file must be provided")
	}
	if extractText != "" && extractFile != "" {
		return fmt.Errorf("--text and --file are mutually exclusive; provide only one")
	}

	text := extractText
	if extractFile != "" {
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return fmt.Errorf("failed to read description file: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	record := types.NewOutputRecord(extractName, extract.Extract(text))
	out := cmd.OutOrStdout()

	if extractPretty {
		observability.NewPrinter(out).PrintRecord(record)
		return nil
	}

	data, err := sink.MarshalIndent(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
