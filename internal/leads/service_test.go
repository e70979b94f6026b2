package leads

import (
	"context"
	"errors"
	"testing"

	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/derive"
	"leadgen-backend/internal/ingest"
	"leadgen-backend/internal/providers"
)

func seedRun(t *testing.T, runs *ingest.MemoryRepo, repo companies.Repo, records ...companies.RawCompany) int64 {
	t.Helper()
	ctx := context.Background()

	runID, _, err := runs.CreateOrGet(ctx, ingest.Run{
		Provider:    "mock",
		Fingerprint: "fp-1",
		Intent:      providers.SearchIntent{Provider: "mock", Query: "tattoo"},
	})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}

	up := &companies.Upserter{Repo: repo}
	result, err := up.UpsertBatch(ctx, records)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rawIDs := make([]int64, 0, len(result.RawIDsBySourceID))
	for _, id := range result.RawIDsBySourceID {
		rawIDs = append(rawIDs, id)
	}
	if err := runs.AttachRawIDs(ctx, runID, rawIDs); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return runID
}

func defaultProfile() derive.Profile {
	return derive.NewProfile("digital_marketing", []string{
		derive.CapabilityAds, derive.CapabilityTracking, derive.CapabilityFunnel,
	})
}

func TestListForRunProjectsLeads(t *testing.T) {
	runs := ingest.NewMemoryRepo()
	repo := companies.NewMemoryRepo()

	runID := seedRun(t, runs, repo,
		companies.RawCompany{
			Source: "mock", SourceID: "a", Name: "Ink House",
			Categories: []string{"Tattoo studio"}, Rating: 4.5, ReviewCount: 200,
		},
		companies.RawCompany{
			Source: "mock", SourceID: "b", Name: "Glow Studio",
			Categories: []string{"Skönhet"}, Website: "https://glow.se",
			Rating: 4.8, ReviewCount: 300,
		},
	)

	svc := NewService(runs, repo, defaultProfile())
	got, err := svc.ListForRun(context.Background(), runID, "")
	if err != nil {
		t.Fatalf("ListForRun: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("leads = %d, want 2", len(got))
	}

	// Highest composite score first.
	if got[0].Score < got[1].Score {
		t.Errorf("leads not sorted by score: %d then %d", got[0].Score, got[1].Score)
	}

	for _, lead := range got {
		if lead.RunID != runID {
			t.Errorf("lead runId = %d, want %d", lead.RunID, runID)
		}
		if lead.Classification.PrimaryIndustry == "" {
			t.Errorf("lead %q missing classification", lead.Name)
		}
		if lead.SocialPresence == "" {
			t.Errorf("lead %q missing presence", lead.Name)
		}
		if lead.Fit.FitScore < 0 || lead.Fit.FitScore > 100 {
			t.Errorf("lead %q fitScore = %d out of range", lead.Name, lead.Fit.FitScore)
		}
		if len(lead.Needs) == 0 {
			t.Errorf("lead %q has no derived needs", lead.Name)
		}
	}
}

func TestListForRunPresenceFilter(t *testing.T) {
	runs := ingest.NewMemoryRepo()
	repo := companies.NewMemoryRepo()

	// One low-presence and one high-presence company.
	runID := seedRun(t, runs, repo,
		companies.RawCompany{
			Source: "mock", SourceID: "low", Name: "Quiet AB",
			Categories: []string{"Misc"}, Rating: 3.8, ReviewCount: 2,
		},
		companies.RawCompany{
			Source: "mock", SourceID: "high", Name: "Loud AB",
			Categories: []string{"Misc"}, Website: "https://loud.se",
			Rating: 4.8, ReviewCount: 300,
		},
	)

	svc := NewService(runs, repo, defaultProfile())

	lows, err := svc.ListForRun(context.Background(), runID, derive.PresenceLow)
	if err != nil {
		t.Fatalf("ListForRun(low): %v", err)
	}
	if len(lows) != 1 || lows[0].Name != "Quiet AB" {
		t.Fatalf("low leads = %+v, want only Quiet AB", lows)
	}

	highs, err := svc.ListForRun(context.Background(), runID, derive.PresenceHigh)
	if err != nil {
		t.Fatalf("ListForRun(high): %v", err)
	}
	if len(highs) != 1 || highs[0].Name != "Loud AB" {
		t.Fatalf("high leads = %+v, want only Loud AB", highs)
	}
}

func TestListForRunClassifiesOnTheFlyWhenMissing(t *testing.T) {
	runs := ingest.NewMemoryRepo()
	repo := companies.NewMemoryRepo()

	runID := seedRun(t, runs, repo, companies.RawCompany{
		Source: "mock", SourceID: "a", Name: "Ink House",
		Categories: []string{"Tatuering"}, Rating: 4.5, ReviewCount: 100,
	})

	// No classification was stored; the service derives one inline.
	svc := NewService(runs, repo, defaultProfile())
	got, err := svc.ListForRun(context.Background(), runID, "")
	if err != nil {
		t.Fatalf("ListForRun: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("leads = %d, want 1", len(got))
	}
	if got[0].Classification.PrimaryIndustry != companies.IndustryTattooStudio {
		t.Errorf("industry = %q, want %q",
			got[0].Classification.PrimaryIndustry, companies.IndustryTattooStudio)
	}
}

func TestListForRunUnknownRun(t *testing.T) {
	svc := NewService(ingest.NewMemoryRepo(), companies.NewMemoryRepo(), defaultProfile())

	_, err := svc.ListForRun(context.Background(), 42, "")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
}

func TestMapIsDeterministic(t *testing.T) {
	raw := companies.RawCompany{
		Source: "mock", SourceID: "a", Name: "Ink House",
		Categories: []string{"Tattoo studio"}, Rating: 4.5, ReviewCount: 200,
	}
	classification := derive.Classify(raw)
	profile := defaultProfile()

	first := Map(1, 11, raw, classification, profile)
	second := Map(1, 11, raw, classification, profile)

	if first.Score != second.Score || first.Fit.FitScore != second.Fit.FitScore {
		t.Errorf("mapping is not deterministic: %+v vs %+v", first, second)
	}
	if first.PrimaryInsight == nil {
		t.Error("strong-signal company should have a primary insight")
	}
}
