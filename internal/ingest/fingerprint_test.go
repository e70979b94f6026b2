package ingest

import (
	"testing"

	"leadgen-backend/internal/providers"
)

func baseIntent() providers.SearchIntent {
	return providers.SearchIntent{
		Provider:  "mock",
		Query:     "tattoo studio",
		Country:   "SE",
		City:      "Stockholm",
		Limit:     25,
		NicheHint: "tattoo",
	}
}

func TestFingerprintStable(t *testing.T) {
	first := Fingerprint(baseIntent())
	for i := 0; i < 5; i++ {
		if got := Fingerprint(baseIntent()); got != first {
			t.Fatalf("fingerprint changed between calls: %s != %s", got, first)
		}
	}
	if first == "" {
		t.Fatal("fingerprint is empty")
	}
}

func TestFingerprintIgnoresTracingMetadata(t *testing.T) {
	plain := Fingerprint(baseIntent())

	withRequestID := baseIntent()
	withRequestID.RequestID = "req-12345"
	if got := Fingerprint(withRequestID); got != plain {
		t.Errorf("requestId changed the fingerprint: %s != %s", got, plain)
	}

	withPresence := baseIntent()
	withPresence.SocialPresence = "high"
	if got := Fingerprint(withPresence); got != plain {
		t.Errorf("socialPresence changed the fingerprint: %s != %s", got, plain)
	}

	// The legacy free-form location alias is display-only; locationText is
	// the canonical field.
	withLocation := baseIntent()
	withLocation.Location = "Stockholm, Sweden"
	if got := Fingerprint(withLocation); got != plain {
		t.Errorf("location changed the fingerprint: %s != %s", got, plain)
	}
}

func TestFingerprintSensitiveFields(t *testing.T) {
	plain := Fingerprint(baseIntent())

	mutations := map[string]func(*providers.SearchIntent){
		"provider": func(i *providers.SearchIntent) { i.Provider = "serp" },
		"query":    func(i *providers.SearchIntent) { i.Query = "restaurang" },
		"country":  func(i *providers.SearchIntent) { i.Country = "NO" },
		"city":     func(i *providers.SearchIntent) { i.City = "Malmö" },
		"lat":      func(i *providers.SearchIntent) { i.Lat = 59.33 },
		"lng":      func(i *providers.SearchIntent) { i.Lng = 18.06 },
		"radius":   func(i *providers.SearchIntent) { i.RadiusM = 5000 },
		"limit":    func(i *providers.SearchIntent) { i.Limit = 50 },
		"page":     func(i *providers.SearchIntent) { i.Page = 2 },
		"cursor":   func(i *providers.SearchIntent) { i.Cursor = "abc" },
		"niche":    func(i *providers.SearchIntent) { i.NicheHint = "beauty" },
	}

	for field, mutate := range mutations {
		intent := baseIntent()
		mutate(&intent)
		if got := Fingerprint(intent); got == plain {
			t.Errorf("changing %s did not change the fingerprint", field)
		}
	}
}
