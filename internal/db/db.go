// Package db provides optional PostgreSQL storage for scrape runs and their results.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates the tables used by the store if they do not exist
const schemaSQL = `
CREATE TABLE IF NOT EXISTS scrape_runs (
	id           UUID PRIMARY KEY,
	input_path   TEXT NOT NULL,
	output_path  TEXT NOT NULL,
	status       TEXT NOT NULL,
	target_count INTEGER NOT NULL DEFAULT 0,
	succeeded    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS company_attributes (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id          UUID NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL,
	name            TEXT NOT NULL,
	name_normalized TEXT NOT NULL,
	url             TEXT NOT NULL,
	founders        TEXT,
	founded_year    TEXT,
	employee_count  TEXT,
	location        TEXT,
	hiring          TEXT,
	description     TEXT,
	scrape_error    TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (run_id, position)
);

CREATE INDEX IF NOT EXISTS company_attributes_name_idx ON company_attributes (name_normalized);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the store tables if needed
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores a finished run and all of its company rows in one transaction
func (db *DB) SaveRun(ctx context.Context, run *Run, rows []CompanyAttributes) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO scrape_runs (id, input_path, output_path, status, target_count, succeeded, failed, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.InputPath, run.OutputPath, run.Status, run.TargetCount, run.Succeeded, run.Failed, run.CreatedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range rows {
		row := &rows[i]
		row.RunID = run.ID
		if row.NameNormalized == "" {
			row.NameNormalized = NormalizeName(row.Name)
		}
		batch.Queue(
			`INSERT INTO company_attributes
			 (run_id, position, name, name_normalized, url, founders, founded_year, employee_count, location, hiring, description, scrape_error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			row.RunID, row.Position, row.Name, row.NameNormalized, row.URL,
			row.Founders, row.FoundedYear, row.EmployeeCount, row.Location, row.Hiring, row.Description, row.ScrapeError,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save company attributes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a scrape run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, input_path, output_path, status, target_count, succeeded, failed, created_at, completed_at
		 FROM scrape_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.InputPath, &run.OutputPath, &run.Status, &run.TargetCount, &run.Succeeded, &run.Failed, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListCompanyAttributes returns the rows of a run in input order
func (db *DB) ListCompanyAttributes(ctx context.Context, runID uuid.UUID) ([]CompanyAttributes, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, position, name, name_normalized, url, founders, founded_year,
		        employee_count, location, hiring, description, scrape_error, created_at
		 FROM company_attributes WHERE run_id = $1 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list company attributes: %w", err)
	}
	defer rows.Close()

	var result []CompanyAttributes
	for rows.Next() {
		var c CompanyAttributes
		if err := rows.Scan(&c.ID, &c.RunID, &c.Position, &c.Name, &c.NameNormalized, &c.URL, &c.Founders, &c.FoundedYear,
			&c.EmployeeCount, &c.Location, &c.Hiring, &c.Description, &c.ScrapeError, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company attributes: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company attributes: %w", err)
	}
	return result, nil
}

// LatestByName returns the most recent stored row for a company name, or nil
func (db *DB) LatestByName(ctx context.Context, name string) (*CompanyAttributes, error) {
	var c CompanyAttributes
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, position, name, name_normalized, url, founders, founded_year,
		        employee_count, location, hiring, description, scrape_error, created_at
		 FROM company_attributes WHERE name_normalized = $1
		 ORDER BY created_at DESC LIMIT 1`,
		NormalizeName(name),
	).Scan(&c.ID, &c.RunID, &c.Position, &c.Name, &c.NameNormalized, &c.URL, &c.Founders, &c.FoundedYear,
		&c.EmployeeCount, &c.Location, &c.Hiring, &c.Description, &c.ScrapeError, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company attributes: %w", err)
	}
	return &c, nil
}

// NewRun returns a Run in the running state stamped with the current time
func NewRun(id uuid.UUID, inputPath, outputPath string) *Run {
	return &Run{
		ID:         id,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Status:     RunStatusRunning,
		CreatedAt:  time.Now().UTC(),
	}
}
