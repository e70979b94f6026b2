// Package providers defines the pluggable external-data boundary: the
// search intent, the adapter contract, and the gateway that clamps and
// validates every result before it can reach persistence.
package providers

import (
	"context"

	"leadgen-backend/internal/companies"
)

// Known provider names.
const (
	NameMock         = "mock"
	NameGooglePlaces = "google_places"
	NameSerp         = "serp"
)

// Names lists the registered provider names in a stable order.
func Names() []string {
	return []string{NameMock, NameGooglePlaces, NameSerp}
}

// Provider error codes.
const (
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeAuth        = "AUTH"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeUpstream    = "UPSTREAM"
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeUnknown     = "UNKNOWN"
)

// Social presence filter values; "any" disables the filter.
const (
	PresenceFilterAny    = "any"
	PresenceFilterLow    = "low"
	PresenceFilterMedium = "medium"
	PresenceFilterHigh   = "high"
)

// NormalizePresenceFilter maps UI variants onto the canonical filter set.
// Empty input means no filter. Unknown values return false.
func NormalizePresenceFilter(value string) (string, bool) {
	switch value {
	case "", PresenceFilterAny:
		return PresenceFilterAny, true
	case PresenceFilterLow, PresenceFilterMedium, PresenceFilterHigh:
		return value, true
	}
	return "", false
}

// SearchIntent is the caller-supplied request descriptor. RequestID is for
// tracing only and never participates in the run fingerprint.
type SearchIntent struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`

	Country      string `json:"country,omitempty"`
	City         string `json:"city,omitempty"`
	Location     string `json:"location,omitempty"`
	LocationText string `json:"locationText,omitempty"`

	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	RadiusM float64 `json:"radius_m,omitempty"`

	Limit  int    `json:"limit,omitempty"`
	Page   int    `json:"page,omitempty"`
	Cursor string `json:"cursor,omitempty"`

	NicheHint      string `json:"nicheHint,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
	SocialPresence string `json:"socialPresence,omitempty"`
}

// Meta carries fetch metadata for one provider call.
type Meta struct {
	Provider      string `json:"provider"`
	RequestID     string `json:"requestId,omitempty"`
	FetchedCount  int    `json:"fetchedCount"`
	ReturnedCount int    `json:"returnedCount"`
	NextCursor    string `json:"nextCursor,omitempty"`
	Exhausted     bool   `json:"exhausted"`

	// RetryAfterSeconds is a provider-suggested backoff hint; 0 means none.
	RetryAfterSeconds int `json:"retryAfterSeconds,omitempty"`
}

// Error is a provider-reported failure.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Result is a validated success or a provider-reported error.
type Result struct {
	OK      bool
	Records []companies.RawCompany
	Meta    Meta
	Err     *Error
}

// Adapter is the pluggable external search capability. Adapters report
// their own failures through Result.Err; they do not return Go errors.
type Adapter interface {
	Name() string
	Search(ctx context.Context, intent SearchIntent) Result
}
