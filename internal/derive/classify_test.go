package derive

import (
	"testing"

	"leadgen-backend/internal/companies"
)

func TestClassifyMatchesIndustries(t *testing.T) {
	cases := []struct {
		name       string
		raw        companies.RawCompany
		industry   string
		confidence int
		goodFit    bool
		axis       string
	}{
		{
			name: "real estate from category",
			raw: companies.RawCompany{
				Name:       "Svensson & Partners",
				Categories: []string{"Real Estate Agency"},
			},
			industry:   companies.IndustryRealEstate,
			confidence: 85,
			goodFit:    true,
			axis:       companies.AxisBoth,
		},
		{
			name: "maklare synonym in name",
			raw: companies.RawCompany{
				Name:       "Mäklare Nord AB",
				Categories: []string{"Agency"},
			},
			industry:   companies.IndustryRealEstate,
			confidence: 85,
			goodFit:    true,
			axis:       companies.AxisBoth,
		},
		{
			name: "tattoo studio",
			raw: companies.RawCompany{
				Name:       "Ink House",
				Categories: []string{"Tatuering"},
			},
			industry:   companies.IndustryTattooStudio,
			confidence: 80,
			goodFit:    true,
			axis:       companies.AxisB2C,
		},
		{
			name: "beauty clinic from description",
			raw: companies.RawCompany{
				Name:        "Glow Studio",
				Categories:  []string{"Salon"},
				Description: "Skönhet och hudvård i centrala Göteborg",
			},
			industry:   companies.IndustryBeautyClinic,
			confidence: 80,
			goodFit:    true,
			axis:       companies.AxisB2C,
		},
		{
			name: "restaurant is a weak fit",
			raw: companies.RawCompany{
				Name:       "Bistro Luna",
				Categories: []string{"Restaurang"},
			},
			industry:   companies.IndustryRestaurant,
			confidence: 55,
			goodFit:    false,
			axis:       companies.AxisB2C,
		},
		{
			name: "unmatched falls back to other",
			raw: companies.RawCompany{
				Name:       "Nordic Plumbing",
				Categories: []string{"Plumber"},
			},
			industry:   companies.IndustryOther,
			confidence: 40,
			goodFit:    false,
			axis:       companies.AxisUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.raw)
			if got.PrimaryIndustry != tc.industry {
				t.Errorf("industry = %q, want %q", got.PrimaryIndustry, tc.industry)
			}
			if got.Confidence != tc.confidence {
				t.Errorf("confidence = %d, want %d", got.Confidence, tc.confidence)
			}
			if got.IsGoodFit != tc.goodFit {
				t.Errorf("isGoodFit = %v, want %v", got.IsGoodFit, tc.goodFit)
			}
			if got.B2BB2C != tc.axis {
				t.Errorf("axis = %q, want %q", got.B2BB2C, tc.axis)
			}
			if got.FitReason == "" {
				t.Error("fitReason is empty")
			}
			if got.Source != companies.ClassificationSourceRules {
				t.Errorf("source = %q, want %q", got.Source, companies.ClassificationSourceRules)
			}
		})
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Text matching both real estate and restaurant terms classifies as
	// real estate because rules are evaluated in order.
	raw := companies.RawCompany{
		Name:       "Mäklare & Restaurang Huset",
		Categories: []string{},
	}
	got := Classify(raw)
	if got.PrimaryIndustry != companies.IndustryRealEstate {
		t.Errorf("industry = %q, want %q", got.PrimaryIndustry, companies.IndustryRealEstate)
	}
}

func TestClassifySubNicheFromFirstCategory(t *testing.T) {
	raw := companies.RawCompany{
		Name:       "Ink House",
		Categories: []string{"Tattoo studio", "Piercing"},
	}
	got := Classify(raw)
	if got.SubNiche != "Tattoo studio" {
		t.Errorf("subNiche = %q, want first category", got.SubNiche)
	}
	if got.ServiceType != companies.ServiceLocal {
		t.Errorf("serviceType = %q, want %q", got.ServiceType, companies.ServiceLocal)
	}
}
