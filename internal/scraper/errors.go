package scraper

import "fmt"

// PanicError wraps a value recovered while scraping a single page.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("scrape panicked: %v", e.Value)
}
