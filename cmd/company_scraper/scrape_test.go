package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/company-scraper/internal/config"
)

func newProfileServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/companies/acme":
			fmt.Fprint(w, `<html><head><meta name="description" content="Founded in 2019 by Ada Lovelace, Acme is based in London and has 12 employees. We are hiring for 4 roles."></head><body></body></html>`)
		case "/companies/plain":
			fmt.Fprint(w, `<html><head><meta name="description" content="A company."></head></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeCSV(t *testing.T, dir string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, "companies.csv")
	content := "Company Name,YC URL,Batch\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScrapeCommand_WritesOrderedOutput(t *testing.T) {
	clearScraperEnv(t)
	server := newProfileServer(t)
	dir := t.TempDir()
	in := writeCSV(t, dir,
		"Acme,"+server.URL+"/companies/acme,W20",
		"Missing,"+server.URL+"/companies/missing,S21",
		"Plain,"+server.URL+"/companies/plain,S22",
	)
	out := filepath.Join(dir, "nested", "out", "companies.json")

	stdout, _, err := executeCommand(t, "scrape", "--in", in, "--out", out, "--concurrency", "2", "--log-level", "error", "--validate")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[1/3] Scraped: Acme\n")
	assert.Contains(t, stdout, "[2/3] Failed to scrape: Missing\n")
	assert.Contains(t, stdout, "[3/3] Scraped: Plain\n")
	assert.Contains(t, stdout, "Scraped data for 3 companies saved to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	expected := `[
  {
    "name": "Acme",
    "founders": "Ada Lovelace",
    "foundedYear": "2019",
    "employeeCount": "12",
    "location": "London and has 12 employees",
    "hiring": "4",
    "description": "Founded in 2019 by Ada Lovelace, Acme is based in London and has 12 employees. We are hiring for 4 roles."
  },
  {
    "name": "Missing"
  },
  {
    "name": "Plain",
    "description": "A company."
  }
]`
	assert.Equal(t, expected, string(data))
}

func TestScrapeCommand_MissingInput(t *testing.T) {
	clearScraperEnv(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	_, _, err := executeCommand(t, "scrape", "--in", filepath.Join(dir, "nope.csv"), "--out", out, "--log-level", "error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestScrapeCommand_InvalidConcurrency(t *testing.T) {
	clearScraperEnv(t)

	_, _, err := executeCommand(t, "scrape", "--concurrency", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestResolveScrapeConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "scraper.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
  "input_path": "from-file.csv",
  "output_path": "from-file.json",
  "concurrency": 3,
  "timeout_seconds": 10
}`), 0644))

	env := map[string]string{
		config.EnvOutputPath:  "from-env.json",
		config.EnvConcurrency: "5",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse([]string{"--config", configPath, "--concurrency", "8"}))

	cfg, err := resolveScrapeConfig(scrapeCmd, lookup)
	require.NoError(t, err)

	assert.Equal(t, "from-file.csv", cfg.InputPath)
	assert.Equal(t, "from-env.json", cfg.OutputPath)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, config.DefaultNameColumn, cfg.NameColumn)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

func TestResolveScrapeConfig_Defaults(t *testing.T) {
	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse(nil))

	cfg, err := resolveScrapeConfig(scrapeCmd, func(string) (string, bool) { return "", false })
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestResolveScrapeConfig_BadEnv(t *testing.T) {
	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse(nil))

	_, err := resolveScrapeConfig(scrapeCmd, func(key string) (string, bool) {
		if key == config.EnvConcurrency {
			return "many", true
		}
		return "", false
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvConcurrency)
}

func TestResolveScrapeConfig_ValidateOutput(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scraper.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"validate_output": true}`), 0644))
	noEnv := func(string) (string, bool) { return "", false }

	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse([]string{"--config", configPath}))
	cfg, err := resolveScrapeConfig(scrapeCmd, noEnv)
	require.NoError(t, err)
	assert.True(t, cfg.ValidateOutput)

	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse([]string{"--config", configPath, "--validate=false"}))
	cfg, err = resolveScrapeConfig(scrapeCmd, noEnv)
	require.NoError(t, err)
	assert.False(t, cfg.ValidateOutput)
}

func TestResolveScrapeConfig_KeywordValueDSN(t *testing.T) {
	resetFlags(rootCmd)
	require.NoError(t, scrapeCmd.Flags().Parse([]string{"--database-url", "host=localhost user=scraper dbname=scraper"}))

	cfg, err := resolveScrapeConfig(scrapeCmd, func(string) (string, bool) { return "", false })

	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=scraper dbname=scraper", cfg.DatabaseURL)
}
