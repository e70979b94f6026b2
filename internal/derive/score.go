package derive

import (
	"math"

	"leadgen-backend/internal/companies"
)

// Risk profiles.
const (
	RiskUnstableBusiness = "unstable_business"
	RiskMatureCompetitor = "mature_competitor"
)

// ScoreResult carries the derived opportunity/readiness/risk axes and the
// composite sorting score. Never persisted; recomputed on demand.
type ScoreResult struct {
	Score       int    `json:"score"`
	Opportunity int    `json:"opportunity"`
	Readiness   int    `json:"readiness"`
	Risk        int    `json:"risk"`
	RiskProfile string `json:"riskProfile,omitempty"`
}

// Score derives opportunity, readiness, risk and a composite score from a
// raw company and its classification. Deterministic: identical inputs
// always produce identical output.
func Score(raw companies.RawCompany, c companies.Classification) ScoreResult {
	f := FactsFrom(raw)

	readiness := readinessFromFacts(f)
	opportunity := opportunityFromFacts(f)

	// Reputation deltas: strong proof without a website is a conversion
	// gap, a very strong web-present reputation is a mature competitor.
	strongReputation := f.Rating >= 4.3 && f.Reviews >= 80
	veryStrongReputation := f.Rating >= 4.4 && f.Reviews >= 150
	weakReputation := f.Reviews < 15

	conversionGap := strongReputation && !f.HasWebsite
	matureCompetitor := veryStrongReputation && f.HasWebsite
	visibilityGap := f.HasWebsite && weakReputation
	foundationGap := !f.HasWebsite && weakReputation

	opportunityAdjusted := opportunity
	if conversionGap {
		opportunityAdjusted += 18
	}
	if matureCompetitor {
		opportunityAdjusted -= 14
	}
	if visibilityGap {
		opportunityAdjusted += 10
	}
	if foundationGap {
		opportunityAdjusted += 12
	}
	opportunityAdjusted = clampInt(opportunityAdjusted, 0, 100)

	riskProfile := ""
	var riskValue float64
	switch {
	case isOperationallyUnstable(f):
		riskProfile = RiskUnstableBusiness
		riskValue = 85
	case isMatureHardTarget(f):
		riskProfile = RiskMatureCompetitor
		riskValue = 75
	default:
		riskValue = 100 - float64(readiness)*0.7
	}
	// The reported axis is rounded once; the composite consumes the
	// unrounded value.
	risk := clampInt(roundInt(riskValue), 0, 100)

	fitBoost := 0
	if c.IsGoodFit {
		fitBoost = 8
	}
	confBoost := clampInt(roundInt(float64(c.Confidence)*0.1), 0, 10)

	// The composite is intentionally built on the unadjusted opportunity;
	// the adjusted value is what gets reported per axis.
	score := clampInt(roundInt(
		float64(opportunity)*0.55+
			float64(readiness)*0.35-
			riskValue*0.2+
			float64(fitBoost)+
			float64(confBoost),
	), 0, 100)

	return ScoreResult{
		Score:       score,
		Opportunity: opportunityAdjusted,
		Readiness:   readiness,
		Risk:        risk,
		RiskProfile: riskProfile,
	}
}

// readinessFromFacts estimates ability to execute and pay.
func readinessFromFacts(f Facts) int {
	r := 0

	if f.HasWebsite {
		r += 12
	}

	switch {
	case f.Rating >= 4.7:
		r += 18
	case f.Rating >= 4.4:
		r += 14
	case f.Rating >= 4.0:
		r += 8
	case f.Rating >= 3.6:
		r += 4
	}

	switch {
	case f.Reviews >= 250:
		r += 22
	case f.Reviews >= 100:
		r += 16
	case f.Reviews >= 25:
		r += 10
	case f.Reviews >= 10:
		r += 6
	case f.Reviews >= 3:
		r += 3
	}

	switch f.SocialPresence {
	case PresenceHigh:
		r += 10
	case PresenceMedium:
		r += 6
	default:
		r += 2
	}

	return clampInt(r, 0, 100)
}

// opportunityFromFacts estimates upside from presence and proof gaps.
func opportunityFromFacts(f Facts) int {
	o := 0

	switch f.SocialPresence {
	case PresenceLow:
		o += 26
	case PresenceMedium:
		o += 14
	default:
		o += 4
	}

	if !f.HasWebsite {
		o += 26
	} else {
		o += 6
	}

	proof := 0
	switch {
	case f.Reviews >= 200:
		proof += 20
	case f.Reviews >= 100:
		proof += 14
	case f.Reviews >= 30:
		proof += 8
	case f.Reviews >= 10:
		proof += 4
	}
	switch {
	case f.Rating >= 4.6:
		proof += 10
	case f.Rating >= 4.3:
		proof += 7
	case f.Rating >= 4.0:
		proof += 4
	}

	// Proof counts fully only where a gap exists to monetize it.
	if !f.HasWebsite || f.SocialPresence == PresenceLow {
		o += proof
	} else {
		o += roundInt(float64(proof) * 0.35)
	}

	return clampInt(o, 0, 100)
}

func isOperationallyUnstable(f Facts) bool {
	if !f.HasWebsite && f.Reviews < 10 {
		return true
	}
	if f.Reviews < 3 && f.Rating < 4.0 {
		return true
	}
	if f.Rating > 0 && f.Rating < 3.6 && f.Reviews < 25 {
		return true
	}
	return false
}

func isMatureHardTarget(f Facts) bool {
	return f.HasWebsite &&
		f.SocialPresence == PresenceHigh &&
		f.Reviews >= 150 &&
		f.Rating >= 4.3
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
