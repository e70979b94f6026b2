// Package mock implements a deterministic provider adapter used for local
// development and tests. Results are seeded from the query, location and
// requested social presence so identical intents return identical records.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/providers"
)

const maxMockRecords = 10

type Adapter struct{}

func New() Adapter { return Adapter{} }

func (Adapter) Name() string { return providers.NameMock }

func (Adapter) Search(ctx context.Context, intent providers.SearchIntent) providers.Result {
	query := strings.TrimSpace(intent.Query)

	count := intent.Limit
	if count <= 0 || count > maxMockRecords {
		count = maxMockRecords
	}

	location := strings.TrimSpace(intent.Location)

	presence := ""
	switch intent.SocialPresence {
	case providers.PresenceFilterLow, providers.PresenceFilterMedium, providers.PresenceFilterHigh:
		presence = intent.SocialPresence
	}

	records := make([]companies.RawCompany, 0, count)
	for idx := 0; idx < count; idx++ {
		n := idx + 1

		// Seed varies with the presence filter so filters actually change
		// results.
		seed := hashToInt(fmt.Sprintf("%s|%s|%s|%d", query, location, presence, n))
		sourceID := "mock_" + hashHex(fmt.Sprintf("%s_%d", query, n))

		rawPayload := map[string]any{
			"provider":          providers.NameMock,
			"q":                 query,
			"location":          location,
			"index":             n,
			"seed":              seed,
			"requestedPresence": presence,
		}

		rating := round1(clampFloat(3.5+float64(seed%150)/100, 3.5, 4.9))
		reviews := clampInt(seed%360-20, 0, 320)
		website := ""
		if seed%5 != 0 {
			website = fmt.Sprintf("https://mock%d.example.com", n)
		}

		switch presence {
		case providers.PresenceFilterLow:
			website = ""
			if seed%4 == 0 {
				website = fmt.Sprintf("https://mock%d.example.com", n)
			}
			reviews = clampInt(int(float64(reviews)*0.45), 0, 140)
			if seed%3 == 0 {
				rating = round1(clampFloat(rating-0.2, 3.5, 4.9))
			}
		case providers.PresenceFilterMedium:
			website = fmt.Sprintf("https://mock%d.example.com", n)
			if seed%8 == 0 {
				website = ""
			}
			reviews = clampInt(int(float64(reviews)*0.9)+5, 10, 260)
			rating = round1(clampFloat(rating, 3.7, 4.8))
		case providers.PresenceFilterHigh:
			website = fmt.Sprintf("https://mock%d.example.com", n)
			if seed%6 == 0 {
				website = ""
			}
			reviews = clampInt(int(float64(reviews)*1.15)+20, 30, 340)
			if seed%7 == 0 {
				rating = round1(clampFloat(rating-0.3, 3.6, 4.9))
			}
		}

		records = append(records, companies.RawCompany{
			Source:      providers.NameMock,
			SourceID:    sourceID,
			Name:        fmt.Sprintf("Mock Company %d", n),
			Categories:  mockCategories(query, seed),
			Website:     website,
			City:        location,
			Country:     "SE",
			Rating:      rating,
			ReviewCount: reviews,
			RawPayload:  rawPayload,
		})
	}

	return providers.Result{
		OK:      true,
		Records: records,
		Meta: providers.Meta{
			Provider:      providers.NameMock,
			RequestID:     intent.RequestID,
			FetchedCount:  len(records),
			ReturnedCount: len(records),
			Exhausted:     true,
		},
	}
}

// mockCategories mixes in misfit rows so classifier confidence and fit are
// not uniformly high.
func mockCategories(query string, seed int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []string{"mock-category"}
	}
	switch seed % 10 {
	case 0:
		return []string{"mock-category", "unrelated", "misc"}
	case 1, 2:
		return []string{q, "mock-category", "misc"}
	default:
		return []string{q, "mock-category"}
	}
}

func hashHex(input string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(input))
	return fmt.Sprintf("%x", h.Sum32())
}

func hashToInt(input string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(input))
	return int(h.Sum32() % 1_000_000)
}

func clampFloat(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
