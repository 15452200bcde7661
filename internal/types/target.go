// Package types provides type definitions for structured data used throughout the company-scraper system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Target is one organization to scrape: a name and its profile page URL.
type Target struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

// Validate checks that the target has a name and a well-formed URL.
// The pipeline does not require this; rows that fail it still produce output.
func (t *Target) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}
