package ingest

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// RunRepo is the persistence boundary for runs and their raw-record links.
// Status transitions are single atomic writes guarded by the current
// status, so two concurrent finalizers or retries cannot both apply.
type RunRepo interface {
	// CreateOrGet inserts a run in the running state, or returns the id of
	// the existing run for (provider, fingerprint) when the unique
	// constraint hits.
	CreateOrGet(ctx context.Context, run Run) (int64, bool, error)

	GetByFingerprint(ctx context.Context, provider, fingerprint string) (Run, error)
	GetByID(ctx context.Context, id int64) (Run, error)
	ListRecent(ctx context.Context, limit int) ([]Run, error)

	// ResetForRetry moves a settled run back to running in place, clearing
	// prior attempt outputs. Reports false when the run was still running,
	// which means another request owns the attempt.
	ResetForRetry(ctx context.Context, runID int64) (bool, error)

	// Finalize transitions a running run to success or error. Reports false
	// when the run was not running.
	Finalize(ctx context.Context, params FinalizeParams) (bool, error)

	// AttachRawIDs idempotently links raw records to a run.
	AttachRawIDs(ctx context.Context, runID int64, rawIDs []int64) error
	GetRawIDsForRun(ctx context.Context, runID int64) ([]int64, error)
}
