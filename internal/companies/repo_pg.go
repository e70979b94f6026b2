package companies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) FindIDsBySourceIDs(ctx context.Context, source string, sourceIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(sourceIDs))
	if len(sourceIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(sourceIDs))
	args := make([]any, 0, len(sourceIDs)+1)
	args = append(args, source)
	for i, id := range sourceIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := `
SELECT id, source_id
FROM companies_raw
WHERE source = $1 AND source_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var sourceID string
		if err := rows.Scan(&id, &sourceID); err != nil {
			return nil, err
		}
		out[sourceID] = id
	}
	return out, rows.Err()
}

func (r *PGRepo) UpsertRaw(ctx context.Context, records []RawCompany) (map[string]int64, error) {
	out := make(map[string]int64, len(records))
	if len(records) == 0 {
		return out, nil
	}

	const query = `
INSERT INTO companies_raw (source, source_id, payload, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (source, source_id) DO UPDATE SET
  payload = EXCLUDED.payload,
  updated_at = now()
RETURNING id`

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		var id int64
		if err := r.DB.QueryRowContext(ctx, query, rec.Source, rec.SourceID, payload).Scan(&id); err != nil {
			return nil, err
		}
		out[rec.SourceID] = id
	}
	return out, nil
}

func (r *PGRepo) GetRawByID(ctx context.Context, rawID int64) (RawCompany, error) {
	const query = `
SELECT payload
FROM companies_raw
WHERE id = $1
LIMIT 1`

	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, rawID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RawCompany{}, ErrNotFound
		}
		return RawCompany{}, err
	}

	var raw RawCompany
	if err := json.Unmarshal(payload, &raw); err != nil {
		return RawCompany{}, err
	}
	if raw.Categories == nil {
		raw.Categories = []string{}
	}
	return raw, nil
}

func (r *PGRepo) UpsertNormalized(ctx context.Context, normalized NormalizedCompany) error {
	const query = `
INSERT INTO companies_normalized
  (raw_id, name, address, city, country, website, categories, rating, review_count, opportunity_signals, primary_insight, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
ON CONFLICT (raw_id) DO UPDATE SET
  name = EXCLUDED.name,
  address = EXCLUDED.address,
  city = EXCLUDED.city,
  country = EXCLUDED.country,
  website = EXCLUDED.website,
  categories = EXCLUDED.categories,
  rating = EXCLUDED.rating,
  review_count = EXCLUDED.review_count,
  opportunity_signals = EXCLUDED.opportunity_signals,
  primary_insight = EXCLUDED.primary_insight,
  updated_at = now()`

	categories, err := json.Marshal(nonNilStrings(normalized.Categories))
	if err != nil {
		return err
	}
	signals, err := marshalNullable(normalized.OpportunitySignals)
	if err != nil {
		return err
	}
	insight, err := marshalNullable(normalized.PrimaryInsight)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, query,
		normalized.RawID,
		normalized.Name,
		nullableString(normalized.Address),
		nullableString(normalized.City),
		nullableString(normalized.Country),
		nullableString(normalized.Website),
		categories,
		nullableFloat(normalized.Rating),
		normalized.ReviewCount,
		signals,
		insight,
	)
	return err
}

func (r *PGRepo) UpsertClassification(ctx context.Context, rawID int64, c Classification) error {
	const query = `
INSERT INTO company_classifications
  (raw_id, primary_industry, sub_niche, service_type, b2b_b2c, is_good_fit, fit_reason, confidence, source, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (raw_id) DO UPDATE SET
  primary_industry = EXCLUDED.primary_industry,
  sub_niche = EXCLUDED.sub_niche,
  service_type = EXCLUDED.service_type,
  b2b_b2c = EXCLUDED.b2b_b2c,
  is_good_fit = EXCLUDED.is_good_fit,
  fit_reason = EXCLUDED.fit_reason,
  confidence = EXCLUDED.confidence,
  source = EXCLUDED.source,
  updated_at = now()`

	_, err := r.DB.ExecContext(ctx, query,
		rawID,
		c.PrimaryIndustry,
		c.SubNiche,
		c.ServiceType,
		c.B2BB2C,
		c.IsGoodFit,
		c.FitReason,
		c.Confidence,
		c.Source,
	)
	return err
}

func (r *PGRepo) GetClassification(ctx context.Context, rawID int64) (Classification, error) {
	const query = `
SELECT primary_industry, sub_niche, service_type, b2b_b2c, is_good_fit, fit_reason, confidence, source
FROM company_classifications
WHERE raw_id = $1
LIMIT 1`

	var c Classification
	err := r.DB.QueryRowContext(ctx, query, rawID).Scan(
		&c.PrimaryIndustry,
		&c.SubNiche,
		&c.ServiceType,
		&c.B2BB2C,
		&c.IsGoodFit,
		&c.FitReason,
		&c.Confidence,
		&c.Source,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Classification{}, ErrNotFound
		}
		return Classification{}, err
	}
	return c, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func marshalNullable(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return data, nil
}
