package derive

import (
	"strings"

	"leadgen-backend/internal/companies"
)

type industryRule struct {
	industry   string
	terms      []string
	confidence int
	fitReason  string
	goodFit    bool
}

// Rules are evaluated in order; the first match wins. Terms include the
// Swedish synonyms the providers return for these verticals.
var industryRules = []industryRule{
	{
		industry:   companies.IndustryRealEstate,
		terms:      []string{"real estate", "mäklare"},
		confidence: 85,
		goodFit:    true,
		fitReason:  "Real estate is a core niche: high-ticket, lead-driven, and heavily dependent on trust and content.",
	},
	{
		industry:   companies.IndustryTattooStudio,
		terms:      []string{"tattoo", "tatuering"},
		confidence: 80,
		goodFit:    true,
		fitReason:  "Tattoo studios win with strong visuals and consistent content that builds desire and trust.",
	},
	{
		industry:   companies.IndustryBeautyClinic,
		terms:      []string{"clinic", "klinik", "skönhet", "beauty"},
		confidence: 80,
		goodFit:    true,
		fitReason:  "Beauty clinics rely on visual proof, education and trust. A strong match for content-driven funnels.",
	},
	{
		industry:   companies.IndustryRestaurant,
		terms:      []string{"restaurant", "restaurang", "bistro"},
		confidence: 55,
		goodFit:    false,
		fitReason:  "Restaurants benefit from content, but they are not a primary target niche right now.",
	},
}

const otherFitReason = "Category does not match the current core target niches. Still usable for tests and volume, but lower priority."

// Classify derives an industry classification for a raw company by matching
// its name, categories and description against the fixed rule list.
func Classify(raw companies.RawCompany) companies.Classification {
	parts := make([]string, 0, len(raw.Categories)+2)
	parts = append(parts, raw.Name)
	parts = append(parts, raw.Categories...)
	parts = append(parts, raw.Description)
	allText := strings.ToLower(strings.Join(parts, " "))

	industry := companies.IndustryOther
	confidence := 40
	goodFit := false
	fitReason := otherFitReason
	for _, rule := range industryRules {
		if containsAny(allText, rule.terms) {
			industry = rule.industry
			confidence = rule.confidence
			goodFit = rule.goodFit
			fitReason = rule.fitReason
			break
		}
	}

	subNiche := ""
	if len(raw.Categories) > 0 {
		subNiche = raw.Categories[0]
	}

	serviceType := companies.ServiceOther
	if industry != companies.IndustryOther {
		serviceType = companies.ServiceLocal
	}

	axis := companies.AxisUnknown
	switch industry {
	case companies.IndustryTattooStudio, companies.IndustryBeautyClinic, companies.IndustryRestaurant:
		axis = companies.AxisB2C
	case companies.IndustryRealEstate:
		axis = companies.AxisBoth
	}

	return companies.Classification{
		PrimaryIndustry: industry,
		SubNiche:        subNiche,
		ServiceType:     serviceType,
		B2BB2C:          axis,
		IsGoodFit:       goodFit,
		FitReason:       fitReason,
		Confidence:      clampInt(confidence, 0, 100),
		Source:          companies.ClassificationSourceRules,
	}
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
