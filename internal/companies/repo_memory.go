package companies

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo used when no database is configured and in
// tests.
type MemoryRepo struct {
	mu              sync.Mutex
	nextID          int64
	rawByID         map[int64]RawCompany
	idByKey         map[string]int64
	normalized      map[int64]NormalizedCompany
	classifications map[int64]Classification
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID:          1,
		rawByID:         make(map[int64]RawCompany),
		idByKey:         make(map[string]int64),
		normalized:      make(map[int64]NormalizedCompany),
		classifications: make(map[int64]Classification),
	}
}

func key(source, sourceID string) string {
	return source + "|" + sourceID
}

func (r *MemoryRepo) FindIDsBySourceIDs(ctx context.Context, source string, sourceIDs []string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int64)
	for _, id := range sourceIDs {
		if rawID, ok := r.idByKey[key(source, id)]; ok {
			out[id] = rawID
		}
	}
	return out, nil
}

func (r *MemoryRepo) UpsertRaw(ctx context.Context, records []RawCompany) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int64, len(records))
	for _, rec := range records {
		k := key(rec.Source, rec.SourceID)
		id, ok := r.idByKey[k]
		if !ok {
			id = r.nextID
			r.nextID++
			r.idByKey[k] = id
		}
		r.rawByID[id] = rec
		out[rec.SourceID] = id
	}
	return out, nil
}

func (r *MemoryRepo) GetRawByID(ctx context.Context, rawID int64) (RawCompany, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.rawByID[rawID]
	if !ok {
		return RawCompany{}, ErrNotFound
	}
	if raw.Categories == nil {
		raw.Categories = []string{}
	}
	return raw, nil
}

func (r *MemoryRepo) UpsertNormalized(ctx context.Context, normalized NormalizedCompany) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalized[normalized.RawID] = normalized
	return nil
}

func (r *MemoryRepo) UpsertClassification(ctx context.Context, rawID int64, classification Classification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.classifications[rawID] = classification
	return nil
}

func (r *MemoryRepo) GetClassification(ctx context.Context, rawID int64) (Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classifications[rawID]
	if !ok {
		return Classification{}, ErrNotFound
	}
	return c, nil
}
