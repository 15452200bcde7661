package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/company-scraper/internal/db"
	"github.com/jonathan/company-scraper/internal/types"
)

func TestHistoryCommand_FlagErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "Neither --run-id nor --name",
			args:        []string{"history"},
			errorString: "exactly one of --run-id or --name",
		},
		{
			name:        "Both --run-id and --name",
			args:        []string{"history", "--run-id", "00000000-0000-0000-0000-000000000000", "--name", "Acme"},
			errorString: "exactly one of --run-id or --name",
		},
		{
			name:        "Malformed run ID",
			args:        []string{"history", "--run-id", "not-a-uuid"},
			errorString: "invalid --run-id",
		},
		{
			name:        "No database URL",
			args:        []string{"history", "--name", "Acme"},
			errorString: "database URL required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestRowRecord(t *testing.T) {
	row := db.CompanyAttributes{
		Name:        "Acme",
		FoundedYear: types.StringPtr("2019"),
		Location:    types.StringPtr("London"),
		ScrapeError: types.StringPtr("ignored"),
	}

	record := rowRecord(row)

	assert.Equal(t, "Acme", record.Name)
	assert.Equal(t, "2019", types.Deref(record.FoundedYear))
	assert.Equal(t, "London", types.Deref(record.Location))
	assert.Nil(t, record.Founders)
	assert.Nil(t, record.Description)
}
