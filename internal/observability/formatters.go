// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/company-scraper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// FailedItem describes one target whose page could not be scraped.
type FailedItem struct {
	Name   string
	URL    string
	Reason string
}

// RunSummary is the information shown at the end of a scrape run.
type RunSummary struct {
	RunID      string
	Total      int
	Succeeded  int
	Failed     int
	Duration   time.Duration
	OutputPath string
	Failures   []FailedItem
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs totals for a finished run and the first few failures.
func (p *Printer) PrintRunSummary(summary RunSummary) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:       %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Companies: %d\n", summary.Total))
	sb.WriteString(fmt.Sprintf("Scraped:   %d\n", summary.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", summary.Duration.Round(time.Millisecond)))
	if summary.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Output:    %s\n", summary.OutputPath))
	}

	if len(summary.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		count := min(len(summary.Failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := summary.Failures[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", f.Name, f.URL))
			if f.Reason != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", f.Reason))
			}
		}
		if len(summary.Failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Failures)-maxItemsToShow))
		}
	}

	p.printBox("SCRAPE RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecord outputs the extracted attributes of one company.
func (p *Printer) PrintRecord(record types.OutputRecord) {
	var sb strings.Builder

	field := func(label string, value *string) {
		if value == nil {
			sb.WriteString(fmt.Sprintf("%-15s -\n", label+":"))
			return
		}
		sb.WriteString(fmt.Sprintf("%-15s %s\n", label+":", *value))
	}

	field("Founders", record.Founders)
	field("Founded", record.FoundedYear)
	field("Employees", record.EmployeeCount)
	field("Location", record.Location)
	field("Hiring", record.Hiring)

	title := "COMPANY"
	if record.Name != "" {
		title = strings.ToUpper(record.Name)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
