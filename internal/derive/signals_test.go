package derive

import (
	"testing"

	"leadgen-backend/internal/companies"
)

func codes(items []Signal) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Code
	}
	return out
}

func hasCode(items []Signal, code string) bool {
	for _, s := range items {
		if s.Code == code {
			return true
		}
	}
	return false
}

func TestDetectSignalsConversionGap(t *testing.T) {
	f := Facts{Rating: 4.5, Reviews: 200, HasWebsite: false, SocialPresence: PresenceMedium}
	got := DetectSignals(f)

	if !hasCode(got.WorkTypes, SignalConversionGapNoWebsite) {
		t.Errorf("work types %v missing %s", codes(got.WorkTypes), SignalConversionGapNoWebsite)
	}
	if !hasCode(got.WorkTypes, SignalTrustGapNoWebsite) {
		t.Errorf("work types %v missing %s", codes(got.WorkTypes), SignalTrustGapNoWebsite)
	}
	if len(got.Resistances) != 0 {
		t.Errorf("resistances = %v, want none", codes(got.Resistances))
	}
}

func TestDetectSignalsMatureHardTarget(t *testing.T) {
	f := Facts{Rating: 4.8, Reviews: 300, HasWebsite: true, SocialPresence: PresenceHigh}
	got := DetectSignals(f)

	if !hasCode(got.Resistances, SignalMatureHardTarget) {
		t.Fatalf("resistances = %v, want %s", codes(got.Resistances), SignalMatureHardTarget)
	}
	if len(got.WorkTypes) != 0 {
		t.Errorf("work types = %v, want none", codes(got.WorkTypes))
	}
}

func TestDetectSignalsBasicsMissingSuppressesReputationRisk(t *testing.T) {
	// Both preconditions hold; basics_missing wins because the reputation
	// branch is its else.
	f := Facts{Rating: 3.0, Reviews: 2, HasWebsite: false, SocialPresence: PresenceLow}
	got := DetectSignals(f)

	if !hasCode(got.Resistances, SignalBasicsMissing) {
		t.Errorf("resistances = %v, want %s", codes(got.Resistances), SignalBasicsMissing)
	}
	if hasCode(got.Resistances, SignalReputationRisk) {
		t.Errorf("resistances = %v, reputation_risk should be suppressed", codes(got.Resistances))
	}
}

func TestDetectSignalsTrustGapStrength(t *testing.T) {
	weak := DetectSignals(Facts{Rating: 3.8, Reviews: 12, HasWebsite: false, SocialPresence: PresenceLow})
	strong := DetectSignals(Facts{Rating: 4.4, Reviews: 12, HasWebsite: false, SocialPresence: PresenceLow})

	for _, s := range weak.WorkTypes {
		if s.Code == SignalTrustGapNoWebsite && s.Strength != StrengthMedium {
			t.Errorf("weak trust gap strength = %q, want medium", s.Strength)
		}
	}
	for _, s := range strong.WorkTypes {
		if s.Code == SignalTrustGapNoWebsite && s.Strength != StrengthHigh {
			t.Errorf("strong trust gap strength = %q, want high", s.Strength)
		}
	}
}

func TestDetectSignalsScalingReady(t *testing.T) {
	f := Facts{Rating: 4.1, Reviews: 60, HasWebsite: true, SocialPresence: PresenceMedium}
	got := DetectSignals(f)

	if !hasCode(got.WorkTypes, SignalScalingReady) {
		t.Errorf("work types = %v, want %s", codes(got.WorkTypes), SignalScalingReady)
	}
}

func TestStrongestPrefersFirstOnTies(t *testing.T) {
	items := []Signal{
		{Code: "a", Strength: StrengthHigh},
		{Code: "b", Strength: StrengthHigh},
	}
	got := Strongest(items)
	if got == nil || got.Code != "a" {
		t.Fatalf("strongest = %+v, want first high item", got)
	}
	if Strongest(nil) != nil {
		t.Error("strongest of empty list should be nil")
	}
}

func TestPrimaryInsightPrefersWorkTypes(t *testing.T) {
	s := Signals{
		WorkTypes:   []Signal{{Code: "wt", Strength: StrengthMedium}},
		Resistances: []Signal{{Code: "res", Strength: StrengthHigh}},
	}
	got := PrimaryInsight(s)
	if got == nil || got.Code != "wt" {
		t.Fatalf("primary insight = %+v, want work type", got)
	}

	onlyRes := Signals{Resistances: []Signal{{Code: "res", Strength: StrengthHigh}}}
	if got := PrimaryInsight(onlyRes); got == nil || got.Code != "res" {
		t.Fatalf("primary insight = %+v, want resistance fallback", got)
	}
}

func TestSocialPresenceHeuristic(t *testing.T) {
	cases := []struct {
		name string
		raw  companies.RawCompany
		want string
	}{
		{"bare company", companies.RawCompany{}, PresenceLow},
		{
			"website plus strong proof",
			companies.RawCompany{Website: "https://x.se", Rating: 4.8, ReviewCount: 300},
			PresenceHigh,
		},
		{
			"strong proof without website",
			companies.RawCompany{Rating: 4.5, ReviewCount: 200},
			PresenceMedium,
		},
		{
			"explicit payload value wins",
			companies.RawCompany{
				Website:     "https://x.se",
				Rating:      4.8,
				ReviewCount: 300,
				RawPayload:  map[string]any{"socialPresence": "low"},
			},
			PresenceLow,
		},
		{
			"invalid explicit value falls through",
			companies.RawCompany{
				RawPayload: map[string]any{"social_presence": "huge"},
			},
			PresenceLow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SocialPresence(tc.raw); got != tc.want {
				t.Errorf("presence = %q, want %q", got, tc.want)
			}
		})
	}
}
