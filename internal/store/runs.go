package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const insertRunSQL = `
INSERT INTO import_runs (id, import_type, file_name, total_rows, accepted,
                         rejected, created, updated, skipped, archived,
                         row_errors, apply_failures, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func (s *Store) insertRun(ctx context.Context, db DBTX, run RunRecord) error {
	rowErrors, err := json.Marshal(run.RowErrors)
	if err != nil {
		return fmt.Errorf("marshal row errors: %w", err)
	}
	failures, err := json.Marshal(run.ApplyFailures)
	if err != nil {
		return fmt.Errorf("marshal apply failures: %w", err)
	}

	_, err = db.Exec(ctx, insertRunSQL,
		run.ID, run.ImportType, run.FileName, run.TotalRows, run.Accepted,
		run.Rejected, run.Created, run.Updated, run.Skipped, run.Archived,
		rowErrors, failures, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("record import run: %w", err)
	}
	return nil
}

const getRunSQL = `
SELECT id, import_type, file_name, total_rows, accepted, rejected,
       created, updated, skipped, archived, row_errors, apply_failures,
       created_at
FROM import_runs
WHERE id = $1`

// Run loads one import run from history.
func (s *Store) Run(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	var run RunRecord
	var rowErrors, failures []byte

	err := s.pool.QueryRow(ctx, getRunSQL, id).Scan(
		&run.ID, &run.ImportType, &run.FileName, &run.TotalRows,
		&run.Accepted, &run.Rejected, &run.Created, &run.Updated,
		&run.Skipped, &run.Archived, &rowErrors, &failures, &run.CreatedAt)
	if err != nil {
		return run, fmt.Errorf("load import run: %w", err)
	}

	if len(rowErrors) > 0 {
		if err := json.Unmarshal(rowErrors, &run.RowErrors); err != nil {
			return run, fmt.Errorf("unmarshal row errors: %w", err)
		}
	}
	if len(failures) > 0 {
		if err := json.Unmarshal(failures, &run.ApplyFailures); err != nil {
			return run, fmt.Errorf("unmarshal apply failures: %w", err)
		}
	}
	return run, nil
}

const listRunsSQL = `
SELECT id, import_type, file_name, total_rows, accepted, rejected,
       created, updated, skipped, archived, created_at
FROM import_runs
WHERE ($1 = '' OR import_type = $1)
ORDER BY created_at DESC
LIMIT $2`

// Runs lists recent import runs, newest first, optionally filtered by
// import type. Row errors are omitted from listings.
func (s *Store) Runs(ctx context.Context, importType string, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, listRunsSQL, importType, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(&run.ID, &run.ImportType, &run.FileName,
			&run.TotalRows, &run.Accepted, &run.Rejected, &run.Created,
			&run.Updated, &run.Skipped, &run.Archived, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
