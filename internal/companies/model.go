package companies

import "time"

// RawCompany is a provider-sourced business as fetched, keyed by
// (source, source_id). The normalized fields are a typed projection of the
// verbatim provider payload kept in RawPayload.
type RawCompany struct {
	Source      string         `json:"source"`
	SourceID    string         `json:"sourceId"`
	Name        string         `json:"name"`
	Categories  []string       `json:"categories"`
	Website     string         `json:"website,omitempty"`
	Address     string         `json:"address,omitempty"`
	City        string         `json:"city,omitempty"`
	Country     string         `json:"country,omitempty"`
	Description string         `json:"description,omitempty"`
	Rating      float64        `json:"rating,omitempty"`
	ReviewCount int            `json:"review_count,omitempty"`
	RawPayload  map[string]any `json:"rawPayload,omitempty"`
}

// HasWebsite reports whether the company has a non-empty website.
func (c RawCompany) HasWebsite() bool {
	return len(c.Website) > 0
}

// Classification is the derived industry classification for a raw company,
// overwritten in place whenever the derivation engine re-runs.
type Classification struct {
	PrimaryIndustry string `json:"primaryIndustry"`
	SubNiche        string `json:"subNiche"`
	ServiceType     string `json:"serviceType"`
	B2BB2C          string `json:"b2b_b2c"`
	IsGoodFit       bool   `json:"isGoodFit"`
	FitReason       string `json:"fitReason"`
	Confidence      int    `json:"confidence"`
	Source          string `json:"source"`
}

// Primary industries, matched in rule order by the derivation engine.
const (
	IndustryRealEstate   = "real_estate"
	IndustryTattooStudio = "tattoo_studio"
	IndustryBeautyClinic = "beauty_clinic"
	IndustryRestaurant   = "restaurant"
	IndustryOther        = "other"
)

// Service types.
const (
	ServiceLocal     = "local_service"
	ServiceOnline    = "online_service"
	ServiceEcommerce = "ecommerce"
	ServiceOther     = "other"
)

// B2B/B2C axis values.
const (
	AxisB2B     = "b2b"
	AxisB2C     = "b2c"
	AxisBoth    = "both"
	AxisUnknown = "unknown"
)

// Classification sources.
const (
	ClassificationSourceRules  = "rules"
	ClassificationSourceAI     = "ai"
	ClassificationSourceManual = "manual"
)

// NormalizedCompany is the read-optimized projection persisted alongside the
// raw payload. Signal fields are stored as opaque JSON documents.
type NormalizedCompany struct {
	RawID              int64     `json:"rawId"`
	Name               string    `json:"name"`
	Address            string    `json:"address,omitempty"`
	City               string    `json:"city,omitempty"`
	Country            string    `json:"country,omitempty"`
	Website            string    `json:"website,omitempty"`
	Categories         []string  `json:"categories"`
	Rating             float64   `json:"rating,omitempty"`
	ReviewCount        int       `json:"review_count,omitempty"`
	OpportunitySignals any       `json:"opportunitySignals,omitempty"`
	PrimaryInsight     any       `json:"primaryInsight,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UpsertResult reports the outcome of an idempotent batch upsert.
type UpsertResult struct {
	RawIDsBySourceID  map[string]int64
	InsertedRaw       int
	SkippedDuplicates int
}
