package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"leadgen-backend/internal/providers"
)

type PGRepo struct {
	DB *sql.DB
}

const runColumns = `
id, provider, intent_hash, request_id, intent, status,
fetched_count, returned_count, inserted_raw, skipped_duplicates,
next_cursor, exhausted, error_code, error_message,
created_at, started_at, finished_at`

func (r *PGRepo) CreateOrGet(ctx context.Context, run Run) (int64, bool, error) {
	const insert = `
INSERT INTO provider_runs (provider, intent_hash, request_id, intent, status, created_at, started_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (provider, intent_hash) DO NOTHING
RETURNING id`

	intentJSON, err := json.Marshal(run.Intent)
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = r.DB.QueryRowContext(ctx, insert,
		run.Provider,
		run.Fingerprint,
		nullableString(run.RequestID),
		intentJSON,
		StatusRunning,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	// Unique constraint hit: another request owns this (provider,
	// fingerprint); hand back the existing id.
	const query = `
SELECT id FROM provider_runs
WHERE provider = $1 AND intent_hash = $2
LIMIT 1`
	if err := r.DB.QueryRowContext(ctx, query, run.Provider, run.Fingerprint).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, ErrNotFound
		}
		return 0, false, err
	}
	return id, false, nil
}

func (r *PGRepo) GetByFingerprint(ctx context.Context, provider, fingerprint string) (Run, error) {
	query := `
SELECT ` + runColumns + `
FROM provider_runs
WHERE provider = $1 AND intent_hash = $2
LIMIT 1`
	return r.scanRun(r.DB.QueryRowContext(ctx, query, provider, fingerprint))
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Run, error) {
	query := `
SELECT ` + runColumns + `
FROM provider_runs
WHERE id = $1
LIMIT 1`
	return r.scanRun(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
SELECT ` + runColumns + `
FROM provider_runs
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *PGRepo) ResetForRetry(ctx context.Context, runID int64) (bool, error) {
	const query = `
UPDATE provider_runs SET
  status = $2,
  started_at = now(),
  finished_at = NULL,
  fetched_count = 0,
  returned_count = 0,
  inserted_raw = 0,
  skipped_duplicates = 0,
  next_cursor = NULL,
  exhausted = FALSE,
  error_code = NULL,
  error_message = NULL
WHERE id = $1 AND status <> $2`

	res, err := r.DB.ExecContext(ctx, query, runID, StatusRunning)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) Finalize(ctx context.Context, params FinalizeParams) (bool, error) {
	const query = `
UPDATE provider_runs SET
  status = $2,
  fetched_count = $3,
  returned_count = $4,
  inserted_raw = $5,
  skipped_duplicates = $6,
  next_cursor = $7,
  exhausted = $8,
  error_code = $9,
  error_message = $10,
  finished_at = now()
WHERE id = $1 AND status = $11`

	res, err := r.DB.ExecContext(ctx, query,
		params.RunID,
		params.Status,
		params.FetchedCount,
		params.ReturnedCount,
		params.InsertedRaw,
		params.SkippedDuplicates,
		nullableString(params.NextCursor),
		params.Exhausted,
		nullableString(params.ErrorCode),
		nullableString(params.ErrorMessage),
		StatusRunning,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) AttachRawIDs(ctx context.Context, runID int64, rawIDs []int64) error {
	if runID == 0 || len(rawIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(rawIDs))
	args := make([]any, 0, len(rawIDs)+1)
	args = append(args, runID)
	for i, rawID := range rawIDs {
		placeholders[i] = fmt.Sprintf("($1, $%d)", i+2)
		args = append(args, rawID)
	}

	query := `
INSERT INTO provider_run_raws (run_id, raw_id)
VALUES ` + strings.Join(placeholders, ", ") + `
ON CONFLICT (run_id, raw_id) DO NOTHING`

	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepo) GetRawIDsForRun(ctx context.Context, runID int64) ([]int64, error) {
	const query = `
SELECT raw_id
FROM provider_run_raws
WHERE run_id = $1
ORDER BY raw_id`

	rows, err := r.DB.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanRun(row rowScanner) (Run, error) {
	var run Run
	var requestID, nextCursor, errorCode, errorMessage sql.NullString
	var finishedAt sql.NullTime
	var intentJSON []byte

	err := row.Scan(
		&run.ID,
		&run.Provider,
		&run.Fingerprint,
		&requestID,
		&intentJSON,
		&run.Status,
		&run.FetchedCount,
		&run.ReturnedCount,
		&run.InsertedRaw,
		&run.SkippedDuplicates,
		&nextCursor,
		&run.Exhausted,
		&errorCode,
		&errorMessage,
		&run.CreatedAt,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}

	run.RequestID = requestID.String
	run.NextCursor = nextCursor.String
	run.ErrorCode = errorCode.String
	run.ErrorMessage = errorMessage.String
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if len(intentJSON) > 0 {
		var intent providers.SearchIntent
		if err := json.Unmarshal(intentJSON, &intent); err == nil {
			run.Intent = intent
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
