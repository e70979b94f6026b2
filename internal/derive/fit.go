package derive

import (
	"math"
	"strconv"
	"strings"
)

// Profile declares which capabilities the caller can deliver.
type Profile struct {
	LineOfBusiness string          `json:"lineOfBusiness"`
	Capabilities   map[string]bool `json:"capabilities"`
}

// NewProfile builds a profile from a capability key list.
func NewProfile(lineOfBusiness string, capabilities []string) Profile {
	caps := make(map[string]bool, len(capabilities))
	for _, c := range capabilities {
		caps[c] = true
	}
	return Profile{LineOfBusiness: lineOfBusiness, Capabilities: caps}
}

// FitResult is the weighted coverage of a lead's needs by a profile.
type FitResult struct {
	FitScore     int      `json:"fitScore"`
	MatchedNeeds []string `json:"matchedNeeds"`
	MissingNeeds []string `json:"missingNeeds"`
	Reasons      []string `json:"reasons"`
}

// ScoreFit scores how well a profile covers the weighted needs. An empty
// need signature returns a neutral 50 rather than a false 0 or 100.
func ScoreFit(profile Profile, needs []WeightedNeed) FitResult {
	if len(needs) == 0 {
		return FitResult{
			FitScore:     50,
			MatchedNeeds: []string{},
			MissingNeeds: []string{},
			Reasons:      []string{"No clear need signature detected yet: neutral fit."},
		}
	}

	matched := []string{}
	missing := []string{}
	matchedWeight := 0
	totalWeight := 0
	for _, n := range needs {
		totalWeight += n.Weight
		if profile.Capabilities[n.Key] {
			matched = append(matched, n.Key)
			matchedWeight += n.Weight
		} else {
			missing = append(missing, n.Key)
		}
	}

	fitScore := 0
	if totalWeight > 0 {
		fitScore = clampInt(int(math.Round(float64(matchedWeight)/float64(totalWeight)*100)), 0, 100)
	}

	reasons := []string{
		"Coverage: " + strconv.Itoa(matchedWeight) + "/" + strconv.Itoa(totalWeight) + " weighted needs matched.",
	}
	if len(matched) > 0 {
		reasons = append(reasons, "Matches: "+strings.Join(matched, ", ")+".")
	}
	if len(missing) > 0 {
		reasons = append(reasons, "Missing: "+strings.Join(missing, ", ")+".")
	}

	return FitResult{
		FitScore:     fitScore,
		MatchedNeeds: matched,
		MissingNeeds: missing,
		Reasons:      reasons,
	}
}
