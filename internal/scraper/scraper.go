// Package scraper turns a profile URL into a best-effort attribute record.
//
// Scrape never returns an error: every failure is captured in the Outcome,
// logged with the offending URL, and folded into an empty record on request.
package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/company-scraper/internal/extract"
	"github.com/jonathan/company-scraper/internal/fetch"
	"github.com/jonathan/company-scraper/internal/logging"
	"github.com/jonathan/company-scraper/internal/types"
)

// Stage identifies where a scrape failed.
type Stage string

const (
	// StageFetch covers transport, status and body decoding failures.
	StageFetch Stage = "fetch"
	// StageParse covers HTML parsing and description lookup failures.
	StageParse Stage = "parse"
)

// Outcome is the result of scraping one URL: either Record is set (success)
// or Err and Stage describe the failure.
type Outcome struct {
	URL    string
	Record *types.AttributeRecord
	Stage  Stage
	Err    error
}

// OK reports whether the scrape succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// AttributeRecord folds the outcome into a record: the extracted record on
// success, an empty record on failure.
func (o Outcome) AttributeRecord() types.AttributeRecord {
	if !o.OK() {
		return types.AttributeRecord{}
	}
	return *o.Record
}

// Scraper composes a Fetcher, the description locator and the pattern extractor.
type Scraper struct {
	fetcher fetch.Fetcher
	logger  *zap.Logger
}

// New creates a Scraper. A nil fetcher uses an HTTPFetcher with default options.
func New(fetcher fetch.Fetcher, logger *zap.Logger) *Scraper {
	if fetcher == nil {
		fetcher = fetch.NewHTTPFetcher(nil)
	}
	return &Scraper{
		fetcher: fetcher,
		logger:  logging.OrNop(logger),
	}
}

// Scrape fetches url and extracts attributes from its description meta-content.
func (s *Scraper) Scrape(ctx context.Context, url string) (outcome Outcome) {
	outcome.URL = url
	defer func() {
		if r := recover(); r != nil {
			outcome = s.fail(url, StageParse, &PanicError{Value: r})
		}
	}()

	result, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return s.fail(url, StageFetch, err)
	}

	description, err := fetch.MetaDescription(result.HTML)
	if err != nil {
		return s.fail(url, StageParse, err)
	}

	record := extract.Extract(description)
	return Outcome{URL: url, Record: &record}
}

func (s *Scraper) fail(url string, stage Stage, err error) Outcome {
	s.logger.Warn("Failed to scrape page",
		zap.String("url", url),
		zap.String("stage", string(stage)),
		zap.Error(err),
	)
	return Outcome{URL: url, Stage: stage, Err: err}
}
