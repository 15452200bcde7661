// Package pipeline orchestrates the scrape run: read targets, scrape each
// profile page, and persist the ordered output collection.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/company-scraper/internal/logging"
	"github.com/jonathan/company-scraper/internal/scraper"
	"github.com/jonathan/company-scraper/internal/types"
)

// Scraper produces an outcome for one URL without returning an error.
type Scraper interface {
	Scrape(ctx context.Context, url string) scraper.Outcome
}

// ProgressEvent reports that one target finished processing.
type ProgressEvent struct {
	Index int    `json:"index"`
	Total int    `json:"total"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ProgressCallback is called once per target. Calls are serialized.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for scraping a target list
type RunOptions struct {
	// Concurrency caps simultaneous in-flight scrapes. Values below 1 mean 1.
	Concurrency int
	OnProgress  ProgressCallback
	Logger      *zap.Logger
}

// Item is the processing record of one target.
type Item struct {
	Index   int
	Target  types.Target
	Outcome scraper.Outcome
}

// Result is the output of a scrape run.
type Result struct {
	RunID      uuid.UUID
	Items      []Item
	Records    []types.OutputRecord
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run scrapes every target and returns one record per target in input order.
//
// Up to opts.Concurrency scrapes run at once; each task writes only its own
// slot, so completion order never affects output order. When ctx is cancelled
// no further targets are dispatched, and those targets get empty records.
func Run(ctx context.Context, targets []types.Target, s Scraper, opts RunOptions) *Result {
	logger := logging.OrNop(opts.Logger)
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	result := &Result{
		RunID:     uuid.New(),
		Items:     make([]Item, len(targets)),
		StartedAt: time.Now(),
	}

	var progressMu sync.Mutex
	report := func(item Item) {
		logger.Info("Scraped company",
			zap.Int("index", item.Index),
			zap.String("name", item.Target.Name),
			zap.Bool("ok", item.Outcome.OK()),
		)
		if opts.OnProgress == nil {
			return
		}
		event := ProgressEvent{
			Index: item.Index,
			Total: len(targets),
			Name:  item.Target.Name,
			URL:   item.Target.URL,
			OK:    item.Outcome.OK(),
		}
		if item.Outcome.Err != nil {
			event.Error = item.Outcome.Err.Error()
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		opts.OnProgress(event)
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			result.Items[i] = cancelledItem(i, target, err)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				result.Items[i] = cancelledItem(i, target, err)
				return nil
			}
			logger.Debug("Scraping data", zap.String("name", target.Name), zap.String("url", target.URL))
			item := Item{Index: i, Target: target, Outcome: s.Scrape(ctx, target.URL)}
			result.Items[i] = item
			report(item)
			return nil
		})
	}
	_ = g.Wait()

	result.Records = make([]types.OutputRecord, len(result.Items))
	for i, item := range result.Items {
		result.Records[i] = types.NewOutputRecord(item.Target.Name, item.Outcome.AttributeRecord())
		if item.Outcome.OK() {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	result.FinishedAt = time.Now()

	return result
}

func cancelledItem(i int, target types.Target, err error) Item {
	return Item{
		Index:   i,
		Target:  target,
		Outcome: scraper.Outcome{URL: target.URL, Stage: scraper.StageFetch, Err: err},
	}
}
