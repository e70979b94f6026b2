package companies

import (
	"context"
	"errors"

	"leadgen-backend/internal/shared/telemetry"
)

// inClauseChunkSize bounds the size of the pre-fetch IN clauses.
const inClauseChunkSize = 250

var ErrMixedSources = errors.New("upsert batch spans multiple sources")

// Upserter is the idempotent dedup-and-insert layer for fetched records.
//
// The existing-row pre-fetch happens before the upsert so the inserted and
// duplicate counts stay deterministic and auditable even though the upsert
// itself is a single idempotent write.
type Upserter struct {
	Repo Repo
}

// UpsertBatch persists a batch of records from a single provider. The
// pre-fetch is best-effort: a failing chunk stops further pre-fetching but
// does not abort the upsert.
func (u *Upserter) UpsertBatch(ctx context.Context, records []RawCompany) (UpsertResult, error) {
	if len(records) == 0 {
		return UpsertResult{RawIDsBySourceID: map[string]int64{}}, nil
	}

	source := records[0].Source
	for _, r := range records[1:] {
		if r.Source != source {
			return UpsertResult{}, ErrMixedSources
		}
	}

	// Deduplicate source ids before the prefetch to keep counts deterministic.
	seen := make(map[string]struct{}, len(records))
	sourceIDs := make([]string, 0, len(records))
	deduped := make([]RawCompany, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.SourceID]; ok {
			continue
		}
		seen[r.SourceID] = struct{}{}
		sourceIDs = append(sourceIDs, r.SourceID)
		deduped = append(deduped, r)
	}

	existing := make(map[string]int64)
	for _, part := range chunk(sourceIDs, inClauseChunkSize) {
		found, err := u.Repo.FindIDsBySourceIDs(ctx, source, part)
		if err != nil {
			telemetry.Warn("companies.prefetch_failed", map[string]any{
				"source": source,
				"error":  err.Error(),
			})
			break
		}
		for id, rawID := range found {
			existing[id] = rawID
		}
	}
	skippedDuplicates := len(existing)

	rawIDs, err := u.Repo.UpsertRaw(ctx, deduped)
	if err != nil {
		return UpsertResult{}, err
	}

	insertedRaw := len(rawIDs) - skippedDuplicates
	if insertedRaw < 0 {
		insertedRaw = 0
	}

	return UpsertResult{
		RawIDsBySourceID:  rawIDs,
		InsertedRaw:       insertedRaw,
		SkippedDuplicates: skippedDuplicates,
	}, nil
}

func chunk(items []string, size int) [][]string {
	if size <= 0 {
		return [][]string{items}
	}
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
