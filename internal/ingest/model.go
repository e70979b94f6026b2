package ingest

import (
	"time"

	"leadgen-backend/internal/providers"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run is one persisted execution of a search intent against a provider,
// uniquely keyed by (provider, fingerprint).
type Run struct {
	ID          int64                  `json:"id"`
	Provider    string                 `json:"provider"`
	Fingerprint string                 `json:"fingerprint"`
	RequestID   string                 `json:"requestId,omitempty"`
	Intent      providers.SearchIntent `json:"intent"`
	Status      string                 `json:"status"`

	FetchedCount      int    `json:"fetchedCount"`
	ReturnedCount     int    `json:"returnedCount"`
	InsertedRaw       int    `json:"insertedRaw"`
	SkippedDuplicates int    `json:"skippedDuplicates"`
	NextCursor        string `json:"nextCursor,omitempty"`
	Exhausted         bool   `json:"exhausted"`

	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// SummaryError is the provider failure carried on an error summary.
type SummaryError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Summary is the caller-facing outcome of a search request.
type Summary struct {
	RunID    int64  `json:"runId"`
	Cached   bool   `json:"cached"`
	Status   string `json:"status"`
	Provider string `json:"provider"`

	RequestID string `json:"requestId,omitempty"`

	FetchedCount      int    `json:"fetchedCount"`
	ReturnedCount     int    `json:"returnedCount"`
	InsertedRaw       int    `json:"insertedRaw"`
	SkippedDuplicates int    `json:"skippedDuplicates"`
	NextCursor        string `json:"nextCursor,omitempty"`
	Exhausted         bool   `json:"exhausted"`

	Retryable         bool `json:"retryable"`
	RetryAfterSeconds int  `json:"retryAfterSeconds,omitempty"`

	Error *SummaryError `json:"error,omitempty"`

	Intent providers.SearchIntent `json:"intent"`
}

// FinalizeParams closes out a run attempt.
type FinalizeParams struct {
	RunID  int64
	Status string

	FetchedCount      int
	ReturnedCount     int
	InsertedRaw       int
	SkippedDuplicates int
	NextCursor        string
	Exhausted         bool

	ErrorCode    string
	ErrorMessage string
}
