// Package store persists the results of import runs: it loads
// existing-record snapshots for the reconciler, applies classified
// records inside a transaction, and keeps run history. The import engine
// itself never touches this package.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store wraps the connection pool with import-specific persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the backing tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// applier bundles the per-import-type persistence operations, mirroring
// how each import type carries its own parse configuration.
type applier struct {
	snapshot func(ctx context.Context, db DBTX) (map[string]importer.Record, error)
	insert   func(ctx context.Context, db DBTX, rec importer.Record) error
	update   func(ctx context.Context, db DBTX, rec importer.Record) error
	archive  func(ctx context.Context, db DBTX, key string) error
}

func (s *Store) applierFor(importType string) (applier, error) {
	switch importType {
	case "employees":
		return employeeApplier(), nil
	case "policies":
		return policyApplier(), nil
	default:
		return applier{}, fmt.Errorf("unknown import type: %s", importType)
	}
}

// Snapshot loads the existing, non-archived records for an import type,
// keyed by natural key. The reconciler treats the result as read-only.
func (s *Store) Snapshot(ctx context.Context, importType string) (map[string]importer.Record, error) {
	ap, err := s.applierFor(importType)
	if err != nil {
		return nil, err
	}
	return ap.snapshot(ctx, s.pool)
}

// ApplyFailure records a classified record the database rejected.
type ApplyFailure struct {
	Key    string `json:"key"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// RunRecord is the persisted outcome of one import run.
type RunRecord struct {
	ID            uuid.UUID            `json:"id"`
	ImportType    string               `json:"importType"`
	FileName      string               `json:"fileName"`
	TotalRows     int                  `json:"totalRows"`
	Accepted      int                  `json:"accepted"`
	Rejected      int                  `json:"rejected"`
	Created       int                  `json:"created"`
	Updated       int                  `json:"updated"`
	Skipped       int                  `json:"skipped"`
	Archived      int                  `json:"archived"`
	RowErrors     []importer.RowError  `json:"rowErrors,omitempty"`
	ApplyFailures []ApplyFailure       `json:"applyFailures,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// Apply persists a reconciliation plan inside a single transaction and
// records the run in history. Each record gets its own savepoint so one
// database rejection does not poison the rest of the batch; failed
// records are reported, not fatal.
func (s *Store) Apply(ctx context.Context, importType, fileName string, result *importer.ImportResult, summary importer.ReconciliationSummary) (RunRecord, error) {
	run := RunRecord{
		ID:         uuid.New(),
		ImportType: importType,
		FileName:   fileName,
		TotalRows:  result.TotalRows,
		Accepted:   len(result.Accepted),
		Rejected:   len(result.Errors),
		Skipped:    summary.Skipped,
		RowErrors:  result.Errors,
		CreatedAt:  time.Now().UTC(),
	}

	ap, err := s.applierFor(importType)
	if err != nil {
		return run, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return run, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, cr := range summary.Records {
		if cr.Action == importer.ActionSkip {
			continue
		}

		spName := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+spName); err != nil {
			return run, fmt.Errorf("create savepoint: %w", err)
		}

		var opErr error
		switch cr.Action {
		case importer.ActionCreate:
			opErr = ap.insert(ctx, tx, cr.Record)
		case importer.ActionUpdate:
			opErr = ap.update(ctx, tx, cr.Record)
		case importer.ActionArchive:
			opErr = ap.archive(ctx, tx, cr.Key)
		}

		if opErr != nil {
			if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+spName); rbErr != nil {
				return run, fmt.Errorf("rollback savepoint: %w", rbErr)
			}
			run.ApplyFailures = append(run.ApplyFailures, ApplyFailure{
				Key:    cr.Key,
				Action: string(cr.Action),
				Reason: opErr.Error(),
			})
			continue
		}

		if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+spName); err != nil {
			return run, fmt.Errorf("release savepoint: %w", err)
		}

		switch cr.Action {
		case importer.ActionCreate:
			run.Created++
		case importer.ActionUpdate:
			run.Updated++
		case importer.ActionArchive:
			run.Archived++
		}
	}

	if err := s.insertRun(ctx, tx, run); err != nil {
		return run, err
	}

	if err := tx.Commit(ctx); err != nil {
		return run, fmt.Errorf("commit: %w", err)
	}

	return run, nil
}
