package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/company-scraper/internal/config"
	"github.com/jonathan/company-scraper/internal/db"
	"github.com/jonathan/company-scraper/internal/observability"
	"github.com/jonathan/company-scraper/internal/sink"
	"github.com/jonathan/company-scraper/internal/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored scrape results",
	Long:  "Looks up results stored by earlier scrape runs: every record of a run with --run-id, or the latest record for a company with --name.",
	RunE:  runHistory,
}

var (
	historyRunID       string
	historyName        string
	historyDatabaseURL string
)

func init() {
	historyCmd.Flags().StringVar(&historyRunID, "run-id", "", "Run ID to list")
	historyCmd.Flags().StringVarP(&historyName, "name", "n", "", "Company name to look up")
	historyCmd.Flags().StringVar(&historyDatabaseURL, "database-url", "", "PostgreSQL URL (overrides DATABASE_URL)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if (historyRunID == "") == (historyName == "") {
		return fmt.Errorf("exactly one of --run-id or --name must be provided")
	}

	var runID uuid.UUID
	if historyRunID != "" {
		id, err := uuid.Parse(historyRunID)
		if err != nil {
			return fmt.Errorf("invalid --run-id: %w", err)
		}
		runID = id
	}

	dsn := historyDatabaseURL
	if dsn == "" {
		dsn = os.Getenv(config.EnvDatabaseURL)
	}
	if dsn == "" {
		return fmt.Errorf("database URL required: set --database-url flag or %s environment variable", config.EnvDatabaseURL)
	}

	ctx := cmd.Context()
	store, err := db.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if historyName != "" {
		row, err := store.LatestByName(ctx, historyName)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("no stored results for %q", historyName)
		}
		observability.NewPrinter(out).PrintRecord(rowRecord(*row))
		return nil
	}

	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	rows, err := store.ListCompanyAttributes(ctx, runID)
	if err != nil {
		return err
	}

	records := make([]types.OutputRecord, len(rows))
	for i, row := range rows {
		records[i] = rowRecord(row)
	}
	data, err := sink.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	fmt.Fprintf(out, "Run %s (%s): %d companies, %d failed\n", run.ID, run.Status, run.TargetCount, run.Failed)
	fmt.Fprintln(out, string(data))
	return nil
}

// rowRecord converts a stored row back into an output record.
func rowRecord(row db.CompanyAttributes) types.OutputRecord {
	return types.OutputRecord{
		Name:          row.Name,
		Founders:      row.Founders,
		FoundedYear:   row.FoundedYear,
		EmployeeCount: row.EmployeeCount,
		Location:      row.Location,
		Hiring:        row.Hiring,
		Description:   row.Description,
	}
}
