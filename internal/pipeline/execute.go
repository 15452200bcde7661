package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/company-scraper/internal/db"
	"github.com/jonathan/company-scraper/internal/logging"
	"github.com/jonathan/company-scraper/internal/observability"
	"github.com/jonathan/company-scraper/internal/source"
	"github.com/jonathan/company-scraper/internal/types"
)

// State is the lifecycle state of a Pipeline.
type State string

const (
	// StateIdle is a Pipeline that has not executed yet.
	StateIdle State = "idle"
	// StateRunning is a Pipeline inside Execute.
	StateRunning State = "running"
	// StateDone is a Pipeline whose output was written.
	StateDone State = "done"
	// StateFailed is a Pipeline stopped by a source or sink error.
	StateFailed State = "failed"
)

// Sink persists the output collection.
type Sink interface {
	Write(path string, records []types.OutputRecord) error
}

// Store records a finished run. Store failures never fail the run.
type Store interface {
	SaveRun(ctx context.Context, run *db.Run, rows []db.CompanyAttributes) error
}

// Options configures a Pipeline.
type Options struct {
	InputPath   string
	OutputPath  string
	Concurrency int
	Verbose     bool
	OnProgress  ProgressCallback
}

// Dependencies are the collaborators a Pipeline drives.
type Dependencies struct {
	Source  source.Reader
	Scraper Scraper
	Sink    Sink
	// Store is optional.
	Store   Store
	Logger  *zap.Logger
	Printer *observability.Printer
}

// Pipeline runs source → scrape → sink once.
type Pipeline struct {
	opts Options
	deps Dependencies

	mu    sync.Mutex
	state State
}

// New creates an idle Pipeline.
func New(opts Options, deps Dependencies) *Pipeline {
	deps.Logger = logging.OrNop(deps.Logger)
	return &Pipeline{opts: opts, deps: deps, state: StateIdle}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Execute reads the targets, scrapes them and writes the output collection.
//
// Only source read and sink write failures are returned. On a sink failure
// the Result is still returned so the caller can keep the records.
func (p *Pipeline) Execute(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return nil, fmt.Errorf("pipeline already %s", p.state)
	}
	p.state = StateRunning
	p.mu.Unlock()

	logger := p.deps.Logger

	targets, err := p.deps.Source.ReadTargets()
	if err != nil {
		p.setState(StateFailed)
		logger.Error("Failed to read targets", zap.String("input", p.opts.InputPath), zap.Error(err))
		return nil, err
	}
	logger.Info("Parsed companies from source", zap.Int("count", len(targets)), zap.String("input", p.opts.InputPath))
	for i := range targets {
		if err := targets[i].Validate(); err != nil {
			// Still scraped; the record keeps its name and loses its attributes.
			logger.Warn("Target failed validation", zap.Int("index", i), zap.String("name", targets[i].Name), zap.Error(err))
		}
	}

	result := Run(ctx, targets, p.deps.Scraper, RunOptions{
		Concurrency: p.opts.Concurrency,
		OnProgress:  p.opts.OnProgress,
		Logger:      logger,
	})

	if err := p.deps.Sink.Write(p.opts.OutputPath, result.Records); err != nil {
		p.setState(StateFailed)
		logger.Error("Failed to write output", zap.String("output", p.opts.OutputPath), zap.Error(err))
		p.saveRun(ctx, result, db.RunStatusFailed)
		return result, err
	}

	p.saveRun(ctx, result, db.RunStatusCompleted)
	p.setState(StateDone)

	logger.Info("Saved scraped data",
		zap.String("run_id", result.RunID.String()),
		zap.Int("companies", len(result.Records)),
		zap.Int("failed", result.Failed),
		zap.String("output", p.opts.OutputPath),
	)
	if p.opts.Verbose && p.deps.Printer != nil {
		p.deps.Printer.PrintRunSummary(Summary(result, p.opts.OutputPath))
	}

	return result, nil
}

func (p *Pipeline) saveRun(ctx context.Context, result *Result, status string) {
	if p.deps.Store == nil {
		return
	}

	run := db.NewRun(result.RunID, p.opts.InputPath, p.opts.OutputPath)
	run.CreatedAt = result.StartedAt.UTC()
	completed := time.Now().UTC()
	run.CompletedAt = &completed
	run.Status = status
	run.TargetCount = len(result.Items)
	run.Succeeded = result.Succeeded
	run.Failed = result.Failed

	if err := p.deps.Store.SaveRun(ctx, run, StoreRows(result)); err != nil {
		p.deps.Logger.Warn("Failed to store run, continuing", zap.String("run_id", result.RunID.String()), zap.Error(err))
	}
}

// StoreRows converts the run's items into store rows in input order.
func StoreRows(result *Result) []db.CompanyAttributes {
	rows := make([]db.CompanyAttributes, len(result.Items))
	for i, item := range result.Items {
		rec := result.Records[i]
		rows[i] = db.CompanyAttributes{
			Position:       item.Index,
			Name:           rec.Name,
			NameNormalized: db.NormalizeName(rec.Name),
			URL:            item.Target.URL,
			Founders:       rec.Founders,
			FoundedYear:    rec.FoundedYear,
			EmployeeCount:  rec.EmployeeCount,
			Location:       rec.Location,
			Hiring:         rec.Hiring,
			Description:    rec.Description,
		}
		if item.Outcome.Err != nil {
			msg := item.Outcome.Err.Error()
			rows[i].ScrapeError = &msg
		}
	}
	return rows
}

// Summary builds the printable summary of a run.
func Summary(result *Result, outputPath string) observability.RunSummary {
	summary := observability.RunSummary{
		RunID:      result.RunID.String(),
		Total:      len(result.Items),
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Duration:   result.Duration(),
		OutputPath: outputPath,
	}
	for _, item := range result.Items {
		if item.Outcome.OK() {
			continue
		}
		failure := observability.FailedItem{Name: item.Target.Name, URL: item.Target.URL}
		if item.Outcome.Err != nil {
			failure.Reason = item.Outcome.Err.Error()
		}
		summary.Failures = append(summary.Failures, failure)
	}
	return summary
}
