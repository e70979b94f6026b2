package ingest

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo keeps runs in process memory. It backs local development
// without Postgres and the package tests.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	runs   map[int64]*Run
	byKey  map[string]int64
	raws   map[int64][]int64

	// Now is overridable so tests can steer timestamps.
	Now func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		runs:  make(map[int64]*Run),
		byKey: make(map[string]int64),
		raws:  make(map[int64][]int64),
		Now:   time.Now,
	}
}

func runKey(provider, fingerprint string) string {
	return provider + "|" + fingerprint
}

func (r *MemoryRepo) CreateOrGet(_ context.Context, run Run) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := runKey(run.Provider, run.Fingerprint)
	if id, ok := r.byKey[key]; ok {
		return id, false, nil
	}

	r.nextID++
	run.ID = r.nextID
	run.Status = StatusRunning
	now := r.Now()
	run.CreatedAt = now
	run.StartedAt = now
	r.runs[run.ID] = &run
	r.byKey[key] = run.ID
	return run.ID, true, nil
}

func (r *MemoryRepo) GetByFingerprint(_ context.Context, provider, fingerprint string) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byKey[runKey(provider, fingerprint)]
	if !ok {
		return Run{}, ErrNotFound
	}
	return *r.runs[id], nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id int64) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return *run, nil
}

func (r *MemoryRepo) ListRecent(_ context.Context, limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	runs := make([]Run, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (r *MemoryRepo) ResetForRetry(_ context.Context, runID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok || run.Status == StatusRunning {
		return false, nil
	}

	run.Status = StatusRunning
	run.StartedAt = r.Now()
	run.FinishedAt = nil
	run.FetchedCount = 0
	run.ReturnedCount = 0
	run.InsertedRaw = 0
	run.SkippedDuplicates = 0
	run.NextCursor = ""
	run.Exhausted = false
	run.ErrorCode = ""
	run.ErrorMessage = ""
	return true, nil
}

func (r *MemoryRepo) Finalize(_ context.Context, params FinalizeParams) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[params.RunID]
	if !ok || run.Status != StatusRunning {
		return false, nil
	}

	run.Status = params.Status
	run.FetchedCount = params.FetchedCount
	run.ReturnedCount = params.ReturnedCount
	run.InsertedRaw = params.InsertedRaw
	run.SkippedDuplicates = params.SkippedDuplicates
	run.NextCursor = params.NextCursor
	run.Exhausted = params.Exhausted
	run.ErrorCode = params.ErrorCode
	run.ErrorMessage = params.ErrorMessage
	finished := r.Now()
	run.FinishedAt = &finished
	return true, nil
}

func (r *MemoryRepo) AttachRawIDs(_ context.Context, runID int64, rawIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[int64]bool, len(r.raws[runID]))
	for _, id := range r.raws[runID] {
		seen[id] = true
	}
	for _, id := range rawIDs {
		if !seen[id] {
			r.raws[runID] = append(r.raws[runID], id)
			seen[id] = true
		}
	}
	return nil
}

func (r *MemoryRepo) GetRawIDsForRun(_ context.Context, runID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, len(r.raws[runID]))
	copy(ids, r.raws[runID])
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
