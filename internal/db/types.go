package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents one execution of the scrape pipeline
type Run struct {
	ID          uuid.UUID  `json:"id"`
	InputPath   string     `json:"input_path"`
	OutputPath  string     `json:"output_path"`
	Status      string     `json:"status"`
	TargetCount int        `json:"target_count"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CompanyAttributes is one scraped company as stored for a run.
// Position is the target's index in the input list.
type CompanyAttributes struct {
	ID             uuid.UUID `json:"id"`
	RunID          uuid.UUID `json:"run_id"`
	Position       int       `json:"position"`
	Name           string    `json:"name"`
	NameNormalized string    `json:"name_normalized"`
	URL            string    `json:"url"`
	Founders       *string   `json:"founders,omitempty"`
	FoundedYear    *string   `json:"founded_year,omitempty"`
	EmployeeCount  *string   `json:"employee_count,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Hiring         *string   `json:"hiring,omitempty"`
	Description    *string   `json:"description,omitempty"`
	ScrapeError    *string   `json:"scrape_error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName normalizes a company name for matching across runs
func NormalizeName(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "")
}
