// Package derive is the deterministic derivation engine: classification,
// scoring, signal detection and capability-fit scoring. Everything in this
// package is a pure function of its inputs so derived values can always be
// rebuilt from stored raw data.
package derive

import "leadgen-backend/internal/companies"

// Social presence levels.
const (
	PresenceLow    = "low"
	PresenceMedium = "medium"
	PresenceHigh   = "high"
)

// NormalizePresence returns the value if it is a known level, else "".
func NormalizePresence(value string) string {
	switch value {
	case PresenceLow, PresenceMedium, PresenceHigh:
		return value
	}
	return ""
}

// SocialPresence projects a low/medium/high presence level for a company.
// An explicit value in the provider payload wins; otherwise the level is a
// deterministic point score over website, review count and rating.
func SocialPresence(raw companies.RawCompany) string {
	if explicit := explicitPresence(raw.RawPayload); explicit != "" {
		return explicit
	}

	points := 0
	if raw.HasWebsite() {
		points++
	}

	switch {
	case raw.ReviewCount >= 200:
		points += 3
	case raw.ReviewCount >= 50:
		points += 2
	case raw.ReviewCount >= 10:
		points++
	}

	switch {
	case raw.Rating >= 4.6:
		points += 2
	case raw.Rating >= 4.2:
		points++
	}

	switch {
	case points >= 5:
		return PresenceHigh
	case points >= 3:
		return PresenceMedium
	default:
		return PresenceLow
	}
}

func explicitPresence(payload map[string]any) string {
	for _, key := range []string{"socialPresence", "social_presence"} {
		if v, ok := payload[key].(string); ok {
			if p := NormalizePresence(v); p != "" {
				return p
			}
		}
	}
	return ""
}
