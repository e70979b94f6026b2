package derive

import "leadgen-backend/internal/companies"

// Signal kinds.
const (
	KindWorkType   = "workType"
	KindResistance = "resistance"
)

// Signal strengths.
const (
	StrengthLow    = "low"
	StrengthMedium = "medium"
	StrengthHigh   = "high"
)

// Work-type signal codes: monetizable gaps a service provider can solve.
const (
	SignalConversionGapNoWebsite = "conversion_gap_no_website"
	SignalContentGapLowSocial    = "content_gap_low_social"
	SignalUnderexposedQuality    = "underexposed_quality"
	SignalTrustGapNoWebsite      = "trust_gap_no_website"
	SignalScalingReady           = "scaling_ready"
	SignalUntappedAttention      = "untapped_attention"
	SignalConversionGap          = "conversion_gap"
)

// Resistance signal codes: friction or risk reducing win probability.
const (
	SignalMatureHardTarget = "mature_hard_target"
	SignalBasicsMissing    = "basics_missing"
	SignalUnstableBasics   = "unstable_basics_missing"
	SignalReputationRisk   = "reputation_risk"
	SignalTrustGap         = "trust_gap"
)

// Signal is one detected opportunity or resistance tag.
type Signal struct {
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Strength string `json:"strength"`
}

// Signals groups the work-type and resistance signals detected for one
// company.
type Signals struct {
	WorkTypes   []Signal `json:"workTypes"`
	Resistances []Signal `json:"resistances"`
}

// All returns resistances followed by work types, the evaluation order.
func (s Signals) All() []Signal {
	out := make([]Signal, 0, len(s.Resistances)+len(s.WorkTypes))
	out = append(out, s.Resistances...)
	out = append(out, s.WorkTypes...)
	return out
}

// Facts is the normalized input the signal and scoring rules evaluate.
type Facts struct {
	Rating         float64
	Reviews        int
	HasWebsite     bool
	SocialPresence string
}

// FactsFrom builds scoring facts from a raw company.
func FactsFrom(raw companies.RawCompany) Facts {
	return Facts{
		Rating:         raw.Rating,
		Reviews:        raw.ReviewCount,
		HasWebsite:     raw.HasWebsite(),
		SocialPresence: SocialPresence(raw),
	}
}

// DetectSignals evaluates a fixed set of independent rules; zero, one or
// many signals may fire.
func DetectSignals(f Facts) Signals {
	var workTypes, resistances []Signal

	if f.HasWebsite && f.SocialPresence == PresenceHigh && f.Reviews >= 150 && f.Rating >= 4.3 {
		resistances = append(resistances, Signal{
			Kind:     KindResistance,
			Code:     SignalMatureHardTarget,
			Message:  "Strong presence + strong proof. Likely already well-served and harder to win",
			Strength: StrengthHigh,
		})
	}

	if !f.HasWebsite && f.Reviews < 10 {
		resistances = append(resistances, Signal{
			Kind:     KindResistance,
			Code:     SignalBasicsMissing,
			Message:  "Missing basics (no website + low proof). Higher risk to convert",
			Strength: StrengthHigh,
		})
	} else if f.Rating > 0 && f.Rating < 3.6 && f.Reviews < 25 {
		resistances = append(resistances, Signal{
			Kind:     KindResistance,
			Code:     SignalReputationRisk,
			Message:  "Weak proof signals. May need fundamentals before scaling",
			Strength: StrengthMedium,
		})
	}

	if f.Rating >= 4.3 && f.Reviews > 50 && !f.HasWebsite {
		workTypes = append(workTypes, Signal{
			Kind:     KindWorkType,
			Code:     SignalConversionGapNoWebsite,
			Message:  "Strong reputation but no website. Major conversion upside",
			Strength: StrengthHigh,
		})
	}

	if f.Reviews > 100 && f.SocialPresence == PresenceLow {
		workTypes = append(workTypes, Signal{
			Kind:     KindWorkType,
			Code:     SignalContentGapLowSocial,
			Message:  "High demand but weak social presence. Clear content gap",
			Strength: StrengthHigh,
		})
	}

	if f.Rating >= 4.5 && f.Reviews < 20 {
		workTypes = append(workTypes, Signal{
			Kind:     KindWorkType,
			Code:     SignalUnderexposedQuality,
			Message:  "High quality but low visibility. Growth opportunity",
			Strength: StrengthMedium,
		})
	}

	if !f.HasWebsite {
		strength := StrengthMedium
		if f.Reviews >= 30 || f.Rating >= 4.3 {
			strength = StrengthHigh
		}
		workTypes = append(workTypes, Signal{
			Kind:     KindWorkType,
			Code:     SignalTrustGapNoWebsite,
			Message:  "No website. Trust + conversion friction",
			Strength: strength,
		})
	}

	if f.Reviews >= 30 && f.Reviews < 120 && (f.SocialPresence == PresenceMedium || f.SocialPresence == PresenceLow) {
		workTypes = append(workTypes, Signal{
			Kind:     KindWorkType,
			Code:     SignalScalingReady,
			Message:  "Stable base but not scaling. Ready for a growth system",
			Strength: StrengthMedium,
		})
	}

	return Signals{WorkTypes: workTypes, Resistances: resistances}
}

var strengthPriority = map[string]int{
	StrengthHigh:   3,
	StrengthMedium: 2,
	StrengthLow:    1,
}

// Strongest picks the highest-strength signal; ties go to the
// first-evaluated item. Returns nil for an empty list.
func Strongest(items []Signal) *Signal {
	var best *Signal
	for i := range items {
		if best == nil || strengthPriority[items[i].Strength] > strengthPriority[best.Strength] {
			best = &items[i]
		}
	}
	return best
}

// PrimaryInsight is the signal that should drive messaging for a lead:
// the strongest work type when any exists, else the strongest signal
// overall.
func PrimaryInsight(s Signals) *Signal {
	if len(s.WorkTypes) > 0 {
		return Strongest(s.WorkTypes)
	}
	return Strongest(s.All())
}
