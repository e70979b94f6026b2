package ingest

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"leadgen-backend/internal/providers"
)

// Fingerprint canonicalizes a search intent into a short stable identity.
// Only result-affecting fields participate; the request id never does, so
// two intents that differ only by tracing metadata hash identically. The
// canonical form is key-sorted JSON (json.Marshal sorts map keys), hashed
// with FNV-1a.
func Fingerprint(intent providers.SearchIntent) string {
	canonical := map[string]any{
		"provider":     intent.Provider,
		"query":        intent.Query,
		"country":      intent.Country,
		"city":         intent.City,
		"locationText": intent.LocationText,
		"lat":          intent.Lat,
		"lng":          intent.Lng,
		"radius_m":     intent.RadiusM,
		"limit":        intent.Limit,
		"page":         intent.Page,
		"cursor":       intent.Cursor,
		"nicheHint":    intent.NicheHint,
	}

	stable, err := json.Marshal(canonical)
	if err != nil {
		// All canonical values are plain scalars; Marshal cannot fail.
		panic(err)
	}

	h := fnv.New32a()
	_, _ = h.Write(stable)
	return fmt.Sprintf("%x", h.Sum32())
}
