// Package leads projects persisted raw companies and their derived rows
// into the caller-facing lead shape served per run.
package leads

import (
	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/derive"
)

// Lead is one scored, classified company as served to callers.
type Lead struct {
	ID    int64 `json:"id"`
	RunID int64 `json:"runId"`

	Name        string   `json:"name"`
	Website     string   `json:"website,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
	Categories  []string `json:"categories"`
	Rating      float64  `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount"`

	SocialPresence string `json:"socialPresence"`

	Classification companies.Classification `json:"classification"`

	Score       int    `json:"score"`
	Opportunity int    `json:"opportunity"`
	Readiness   int    `json:"readiness"`
	Risk        int    `json:"risk"`
	RiskProfile string `json:"riskProfile,omitempty"`

	Signals        derive.Signals `json:"signals"`
	PrimaryInsight *derive.Signal `json:"primaryInsight,omitempty"`

	Needs       []derive.WeightedNeed `json:"needs"`
	NeedReasons []string              `json:"needReasons,omitempty"`
	Fit         derive.FitResult      `json:"fit"`
}

// Map derives the full lead view from a stored raw company and its
// classification. All derivation is pure, so mapping is deterministic.
func Map(runID, rawID int64, raw companies.RawCompany, classification companies.Classification, profile derive.Profile) Lead {
	facts := derive.FactsFrom(raw)
	signals := derive.DetectSignals(facts)
	score := derive.Score(raw, classification)
	needs := derive.DeriveNeedsForLead(classification.PrimaryIndustry, facts, signals)
	fit := derive.ScoreFit(profile, needs.Needs)

	categories := raw.Categories
	if categories == nil {
		categories = []string{}
	}

	return Lead{
		ID:             rawID,
		RunID:          runID,
		Name:           raw.Name,
		Website:        raw.Website,
		Address:        raw.Address,
		City:           raw.City,
		Country:        raw.Country,
		Categories:     categories,
		Rating:         raw.Rating,
		ReviewCount:    raw.ReviewCount,
		SocialPresence: derive.SocialPresence(raw),
		Classification: classification,
		Score:          score.Score,
		Opportunity:    score.Opportunity,
		Readiness:      score.Readiness,
		Risk:           score.Risk,
		RiskProfile:    score.RiskProfile,
		Signals:        signals,
		PrimaryInsight: derive.PrimaryInsight(signals),
		Needs:          needs.Needs,
		NeedReasons:    needs.Reasons,
		Fit:            fit,
	}
}
