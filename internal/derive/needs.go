package derive

import "leadgen-backend/internal/companies"

// Capability keys a service profile can declare.
const (
	CapabilityAds      = "ads"
	CapabilityTracking = "tracking"
	CapabilityFunnel   = "funnel"
	CapabilityContent  = "content"
	CapabilityWebsite  = "website"
	CapabilitySEO      = "seo"
	CapabilityCRM      = "crm"
)

var capabilityLabels = map[string]string{
	CapabilityAds:      "Ads",
	CapabilityTracking: "Tracking",
	CapabilityFunnel:   "Funnel",
	CapabilityContent:  "Content",
	CapabilityWebsite:  "Website/Landing page",
	CapabilitySEO:      "SEO",
	CapabilityCRM:      "CRM/Follow-up",
}

// WeightedNeed is one capability a lead needs, weighted 1-5.
type WeightedNeed struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Weight int    `json:"weight"`
}

// DerivedNeeds is the weighted need signature derived for a lead.
type DerivedNeeds struct {
	Needs   []WeightedNeed `json:"needs"`
	Reasons []string       `json:"reasons"`
}

type needAccumulator struct {
	byKey   map[string]WeightedNeed
	order   []string
	reasons []string
}

func newNeedAccumulator() *needAccumulator {
	return &needAccumulator{byKey: make(map[string]WeightedNeed)}
}

// add records a need; repeat occurrences keep the larger weight, never
// downgrade.
func (a *needAccumulator) add(key string, weight int, reason string) {
	existing, ok := a.byKey[key]
	if !ok {
		a.order = append(a.order, key)
	}
	if !ok || weight > existing.Weight {
		a.byKey[key] = WeightedNeed{Key: key, Label: capabilityLabels[key], Weight: weight}
	}
	if reason != "" {
		a.reasons = append(a.reasons, reason)
	}
}

func (a *needAccumulator) result() DerivedNeeds {
	needs := make([]WeightedNeed, 0, len(a.order))
	for _, key := range a.order {
		needs = append(needs, a.byKey[key])
	}
	return DerivedNeeds{Needs: needs, Reasons: dedupeStrings(a.reasons)}
}

// DeriveNeeds maps detected signals to weighted capability needs. Signal
// codes outside the supported sets are ignored.
func DeriveNeeds(s Signals) DerivedNeeds {
	acc := newNeedAccumulator()
	addSignalNeeds(acc, s)
	return acc.result()
}

func addSignalNeeds(acc *needAccumulator, s Signals) {
	for _, sig := range s.WorkTypes {
		switch sig.Code {
		case SignalUntappedAttention:
			acc.add(CapabilityAds, 5, "Untapped attention: ads needed.")
			acc.add(CapabilityContent, 4, "Untapped attention: content needed.")
		case SignalConversionGap, SignalConversionGapNoWebsite:
			acc.add(CapabilityFunnel, 5, "Conversion gap: funnel needed.")
			acc.add(CapabilityTracking, 5, "Conversion gap: tracking needed.")
			acc.add(CapabilityWebsite, 5, "Conversion gap: website/landing page needed.")
		case SignalScalingReady:
			acc.add(CapabilityAds, 4, "Scaling-ready: ads to increase volume.")
			acc.add(CapabilityTracking, 4, "Scaling-ready: tracking to measure growth.")
			acc.add(CapabilityCRM, 3, "Scaling-ready: follow-up to capture increased demand.")
		case SignalUnderexposedQuality:
			acc.add(CapabilityAds, 4, "Underexposed quality: ads to increase visibility.")
			acc.add(CapabilityContent, 4, "Underexposed quality: content to build attention.")
		case SignalContentGapLowSocial:
			acc.add(CapabilityContent, 5, "Content gap: content engine needed.")
			acc.add(CapabilityAds, 4, "Content gap: ads to create demand.")
		case SignalTrustGapNoWebsite:
			acc.add(CapabilityWebsite, 5, "Trust gap: website/landing page needed.")
		}
	}

	for _, sig := range s.Resistances {
		switch sig.Code {
		case SignalMatureHardTarget:
			acc.add(CapabilityAds, 4, "Mature competitor: sharper ads to displace.")
			acc.add(CapabilityTracking, 4, "Mature competitor: measurement to prove lift.")
			acc.add(CapabilityFunnel, 3, "Mature competitor: conversion system matters more.")
		case SignalUnstableBasics, SignalBasicsMissing, SignalReputationRisk:
			acc.add(CapabilityWebsite, 5, "Unstable basics: website/foundation needed first.")
			acc.add(CapabilityCRM, 4, "Unstable basics: ops follow-up may be needed before scaling.")
		case SignalTrustGap:
			acc.add(CapabilityWebsite, 5, "Trust gap: website/landing page needed.")
		}
	}
}

// Baseline needs by industry: what that vertical typically needs to grow,
// before signals upgrade or extend it.
var baseNeedsByIndustry = map[string][]WeightedNeed{
	companies.IndustryRealEstate: {
		{Key: CapabilityAds, Weight: 5},
		{Key: CapabilityFunnel, Weight: 5},
		{Key: CapabilityTracking, Weight: 4},
		{Key: CapabilityCRM, Weight: 3},
		{Key: CapabilityWebsite, Weight: 2},
	},
	companies.IndustryTattooStudio: {
		{Key: CapabilityContent, Weight: 5},
		{Key: CapabilityAds, Weight: 4},
		{Key: CapabilityWebsite, Weight: 2},
	},
	companies.IndustryBeautyClinic: {
		{Key: CapabilityAds, Weight: 5},
		{Key: CapabilityFunnel, Weight: 4},
		{Key: CapabilityContent, Weight: 4},
		{Key: CapabilityTracking, Weight: 3},
		{Key: CapabilityWebsite, Weight: 3},
		{Key: CapabilityCRM, Weight: 2},
	},
	companies.IndustryRestaurant: {
		{Key: CapabilitySEO, Weight: 5},
		{Key: CapabilityContent, Weight: 3},
		{Key: CapabilityWebsite, Weight: 2},
	},
	companies.IndustryOther: {
		{Key: CapabilityAds, Weight: 3},
		{Key: CapabilityContent, Weight: 3},
		{Key: CapabilityWebsite, Weight: 2},
	},
}

// DeriveNeedsForLead layers industry baseline needs, fact-driven needs and
// signal-driven needs into one weighted signature.
func DeriveNeedsForLead(industry string, f Facts, s Signals) DerivedNeeds {
	acc := newNeedAccumulator()

	base, ok := baseNeedsByIndustry[industry]
	if !ok {
		base = baseNeedsByIndustry[companies.IndustryOther]
	}
	for _, n := range base {
		acc.add(n.Key, n.Weight, "Baseline ("+industry+"): "+capabilityLabels[n.Key]+".")
	}

	if !f.HasWebsite {
		acc.add(CapabilityWebsite, 5, "No website: website/landing page is required.")
		acc.add(CapabilityFunnel, 4, "No website: funnel capture is required.")
	}
	if f.SocialPresence == PresenceLow {
		acc.add(CapabilityContent, 5, "Low social presence: content engine required.")
		acc.add(CapabilityAds, 5, "Low social presence: ads needed to create demand.")
	}

	addSignalNeeds(acc, s)
	return acc.result()
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
