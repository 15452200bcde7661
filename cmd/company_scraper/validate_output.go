package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/company-scraper/internal/schemas"
)

var validateOutputCmd = &cobra.Command{
	Use:   "validate-output",
	Short: "Validate a scrape output file",
	Long:  "Validates a scrape output file against the built-in output schema, or against --schema when given.",
	RunE:  runValidateOutput,
}

var (
	validateOutputFile   string
	validateOutputSchema string
)

func init() {
	validateOutputCmd.Flags().StringVarP(&validateOutputFile, "file", "f", "", "Path to the JSON output file (required)")
	validateOutputCmd.Flags().StringVarP(&validateOutputSchema, "schema", "s", "", "Path to a JSON Schema file to use instead of the built-in one")

	if err := validateOutputCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateOutputCmd)
}

func runValidateOutput(cmd *cobra.Command, _ []string) error {
	var err error
	if validateOutputSchema != "" {
		err = schemas.ValidateJSON(validateOutputSchema, validateOutputFile)
	} else {
		err = schemas.ValidateOutputFile(validateOutputFile)
	}

	if err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprint(cmd.ErrOrStderr(), validationErr.Error())
			return fmt.Errorf("%s does not match the output schema (%d errors)", validateOutputFile, len(validationErr.Errors))
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Validation successful: %s\n", validateOutputFile)
	return nil
}
