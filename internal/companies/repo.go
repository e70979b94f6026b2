package companies

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Repo is the persistence boundary for raw companies and their derived rows.
// All writes are idempotent on the unique keys described in the schema.
type Repo interface {
	// FindIDsBySourceIDs returns raw ids for the given source-local ids that
	// already exist for this source.
	FindIDsBySourceIDs(ctx context.Context, source string, sourceIDs []string) (map[string]int64, error)

	// UpsertRaw inserts-or-replaces the given companies keyed on
	// (source, source_id) and returns the raw id per source-local id.
	UpsertRaw(ctx context.Context, records []RawCompany) (map[string]int64, error)

	// GetRawByID re-loads a company's canonical stored form.
	GetRawByID(ctx context.Context, rawID int64) (RawCompany, error)

	UpsertNormalized(ctx context.Context, normalized NormalizedCompany) error
	UpsertClassification(ctx context.Context, rawID int64, classification Classification) error
	GetClassification(ctx context.Context, rawID int64) (Classification, error)
}
