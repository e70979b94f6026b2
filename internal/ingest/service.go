package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadgen-backend/internal/companies"
	"leadgen-backend/internal/derive"
	"leadgen-backend/internal/providers"
	"leadgen-backend/internal/ratelimit"
	"leadgen-backend/internal/shared/config"
	"leadgen-backend/internal/shared/telemetry"
)

// RequestError rejects a malformed search intent before any run exists.
type RequestError struct {
	Field  string
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

// RateLimitError rejects a cache-missing request that exceeded a caller
// quota. Scope is "global" or "provider".
type RateLimitError struct {
	Scope             string
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded, retry in %ds", e.Scope, e.RetryAfterSeconds)
}

// Service orchestrates one search: cache lookup, rate limiting, provider
// fetch, idempotent persistence and derivation, all recorded on a run row.
type Service struct {
	Runs      RunRepo
	Companies companies.Repo
	Upserter  *companies.Upserter
	Gateway   *providers.Gateway
	Limiter   *ratelimit.Limiter

	CacheTTL       time.Duration
	GlobalLimit    int
	GlobalWindow   time.Duration
	ProviderLimit  int
	ProviderWindow time.Duration

	now func() time.Time
}

func NewService(cfg config.Config, runs RunRepo, repo companies.Repo, gateway *providers.Gateway) *Service {
	return &Service{
		Runs:           runs,
		Companies:      repo,
		Upserter:       &companies.Upserter{Repo: repo},
		Gateway:        gateway,
		Limiter:        ratelimit.New(time.Now),
		CacheTTL:       cfg.RunCacheTTL,
		GlobalLimit:    cfg.GlobalRateLimit,
		GlobalWindow:   cfg.GlobalRateWindow,
		ProviderLimit:  cfg.ProviderRateLimit,
		ProviderWindow: cfg.ProviderRateWindow,
		now:            time.Now,
	}
}

// Search resolves one search intent to a run summary. caller identifies the
// requesting client for rate limiting.
func (s *Service) Search(ctx context.Context, intent providers.SearchIntent, caller string) (Summary, error) {
	if err := s.validate(&intent); err != nil {
		return Summary{}, err
	}

	fingerprint := Fingerprint(intent)

	existing, err := s.Runs.GetByFingerprint(ctx, intent.Provider, fingerprint)
	switch {
	case err == nil:
		return s.resumeRun(ctx, existing, intent, caller, fingerprint)
	case errors.Is(err, ErrNotFound):
		// First sighting of this intent, fall through to a fresh run.
	default:
		return Summary{}, err
	}

	if err := s.consumeQuotas(intent.Provider, caller); err != nil {
		return Summary{}, err
	}

	runID, created, err := s.Runs.CreateOrGet(ctx, Run{
		Provider:    intent.Provider,
		Fingerprint: fingerprint,
		RequestID:   intent.RequestID,
		Intent:      intent,
	})
	if err != nil {
		return Summary{}, err
	}
	if !created {
		// Lost the insert race; the winner's run answers this request.
		run, err := s.Runs.GetByID(ctx, runID)
		if err != nil {
			return Summary{}, err
		}
		return summaryFromRun(run, run.Status == StatusSuccess), nil
	}

	return s.execute(ctx, runID, intent)
}

// resumeRun decides what to do with a pre-existing run for this intent.
func (s *Service) resumeRun(ctx context.Context, run Run, intent providers.SearchIntent, caller, fingerprint string) (Summary, error) {
	switch run.Status {
	case StatusSuccess:
		if cacheFresh(run, s.CacheTTL, s.now()) {
			return summaryFromRun(run, true), nil
		}
	case StatusRunning:
		// Another request holds the attempt; report progress, do not
		// double-fetch.
		return summaryFromRun(run, false), nil
	case StatusError:
		// Terminal failures stay terminal: no provider call, no quota
		// spend, just the stored outcome.
		if !IsRetryable(run.ErrorCode, false) {
			return summaryFromRun(run, false), nil
		}
	}

	// Error retry or stale-success refresh: both are cache misses and pay
	// the same quotas as a fresh run.
	if err := s.consumeQuotas(intent.Provider, caller); err != nil {
		return Summary{}, err
	}

	reset, err := s.Runs.ResetForRetry(ctx, run.ID)
	if err != nil {
		return Summary{}, err
	}
	if !reset {
		// A concurrent request reset it first.
		current, err := s.Runs.GetByID(ctx, run.ID)
		if err != nil {
			return Summary{}, err
		}
		return summaryFromRun(current, current.Status == StatusSuccess), nil
	}

	return s.execute(ctx, run.ID, intent)
}

// execute performs the provider fetch and persistence for a run this
// request owns, then finalizes it.
func (s *Service) execute(ctx context.Context, runID int64, intent providers.SearchIntent) (Summary, error) {
	result, err := s.Gateway.Search(ctx, intent)
	if err != nil {
		// Contract violations are internal faults, not provider errors.
		// The run records a terminal code so it never auto-retries, and
		// the caller gets a plain error instead of an error summary.
		params := FinalizeParams{
			RunID:        runID,
			Status:       StatusError,
			ErrorCode:    providers.ErrCodeUnknown,
			ErrorMessage: err.Error(),
		}
		if _, ferr := s.Runs.Finalize(ctx, params); ferr != nil {
			telemetry.Warn("ingest.finalize_failed", map[string]any{
				"run_id": runID,
				"error":  ferr.Error(),
			})
		}
		return Summary{}, fmt.Errorf("provider gateway: %w", err)
	}

	if result.Err != nil {
		return s.finalizeError(ctx, runID, intent, result.Err.Code, result.Err.Message, result.Meta.RetryAfterSeconds)
	}

	up, err := s.Upserter.UpsertBatch(ctx, result.Records)
	if err != nil {
		return s.finalizeError(ctx, runID, intent, providers.ErrCodeUpstream, "persisting fetched records failed: "+err.Error(), 0)
	}

	rawIDs := make([]int64, 0, len(up.RawIDsBySourceID))
	for _, id := range up.RawIDsBySourceID {
		rawIDs = append(rawIDs, id)
	}
	if err := s.Runs.AttachRawIDs(ctx, runID, rawIDs); err != nil {
		telemetry.Warn("ingest.attach_raws_failed", map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		})
	}

	s.deriveAll(ctx, runID, rawIDs)

	fetched := result.Meta.FetchedCount
	if fetched == 0 {
		fetched = len(result.Records)
	}
	params := FinalizeParams{
		RunID:             runID,
		Status:            StatusSuccess,
		FetchedCount:      fetched,
		ReturnedCount:     len(result.Records),
		InsertedRaw:       up.InsertedRaw,
		SkippedDuplicates: up.SkippedDuplicates,
		NextCursor:        result.Meta.NextCursor,
		Exhausted:         result.Meta.Exhausted,
	}
	if _, err := s.Runs.Finalize(ctx, params); err != nil {
		return Summary{}, err
	}

	run, err := s.Runs.GetByID(ctx, runID)
	if err != nil {
		return Summary{}, err
	}
	return summaryFromRun(run, false), nil
}

// deriveAll classifies, scores and normalizes every persisted record.
// Derivation failures degrade the run, they do not fail it.
func (s *Service) deriveAll(ctx context.Context, runID int64, rawIDs []int64) {
	for _, rawID := range rawIDs {
		if _, _, err := s.deriveOne(ctx, rawID); err != nil {
			telemetry.Warn("ingest.derive_failed", map[string]any{
				"run_id": runID,
				"raw_id": rawID,
				"error":  err.Error(),
			})
		}
	}
}

func (s *Service) deriveOne(ctx context.Context, rawID int64) (companies.RawCompany, companies.Classification, error) {
	raw, err := s.Companies.GetRawByID(ctx, rawID)
	if err != nil {
		return companies.RawCompany{}, companies.Classification{}, err
	}

	classification := derive.Classify(raw)
	if err := s.Companies.UpsertClassification(ctx, rawID, classification); err != nil {
		return companies.RawCompany{}, companies.Classification{}, err
	}

	signals := derive.DetectSignals(derive.FactsFrom(raw))
	normalized := companies.NormalizedCompany{
		RawID:              rawID,
		Name:               raw.Name,
		Address:            raw.Address,
		City:               raw.City,
		Country:            raw.Country,
		Website:            raw.Website,
		Categories:         raw.Categories,
		Rating:             raw.Rating,
		ReviewCount:        raw.ReviewCount,
		OpportunitySignals: signals,
		UpdatedAt:          s.now(),
	}
	if insight := derive.PrimaryInsight(signals); insight != nil {
		normalized.PrimaryInsight = insight
	}
	if err := s.Companies.UpsertNormalized(ctx, normalized); err != nil {
		return companies.RawCompany{}, companies.Classification{}, err
	}
	return raw, classification, nil
}

// ReclassifyResult is the outcome of re-deriving one stored company.
type ReclassifyResult struct {
	RawID          int64                    `json:"rawId"`
	Classification companies.Classification `json:"classification"`
	Score          derive.ScoreResult       `json:"score"`
}

// Reclassify re-runs classification, signal detection and normalization
// for one stored company and reports the fresh derivation.
func (s *Service) Reclassify(ctx context.Context, rawID int64) (ReclassifyResult, error) {
	raw, classification, err := s.deriveOne(ctx, rawID)
	if err != nil {
		return ReclassifyResult{}, err
	}
	return ReclassifyResult{
		RawID:          rawID,
		Classification: classification,
		Score:          derive.Score(raw, classification),
	}, nil
}

func (s *Service) finalizeError(ctx context.Context, runID int64, intent providers.SearchIntent, code, message string, providerRetryAfter int) (Summary, error) {
	params := FinalizeParams{
		RunID:        runID,
		Status:       StatusError,
		ErrorCode:    code,
		ErrorMessage: message,
	}
	if _, err := s.Runs.Finalize(ctx, params); err != nil {
		return Summary{}, err
	}

	run, err := s.Runs.GetByID(ctx, runID)
	if err != nil {
		return Summary{}, err
	}

	summary := summaryFromRun(run, false)
	if summary.Retryable && providerRetryAfter > 0 {
		summary.RetryAfterSeconds = RetryAfterSeconds(code, providerRetryAfter)
	}
	return summary, nil
}

// consumeQuotas charges the caller's global window first, then the
// per-provider window, so a provider burst still spends global budget.
func (s *Service) consumeQuotas(provider, caller string) error {
	if caller == "" {
		caller = "anonymous"
	}

	global := s.Limiter.Consume("global|"+caller, s.GlobalLimit, s.GlobalWindow)
	if !global.OK {
		return &RateLimitError{Scope: "global", RetryAfterSeconds: global.RetryAfterSeconds}
	}

	scoped := s.Limiter.Consume("provider|"+provider+"|"+caller, s.ProviderLimit, s.ProviderWindow)
	if !scoped.OK {
		return &RateLimitError{Scope: "provider", RetryAfterSeconds: scoped.RetryAfterSeconds}
	}
	return nil
}

func (s *Service) validate(intent *providers.SearchIntent) error {
	if intent.Provider == "" {
		return &RequestError{Field: "provider", Detail: "provider is required"}
	}
	if !s.Gateway.Known(intent.Provider) {
		return &RequestError{Field: "provider", Detail: "unknown provider " + intent.Provider}
	}
	if intent.Query == "" {
		return &RequestError{Field: "query", Detail: "query is required"}
	}

	presence, ok := providers.NormalizePresenceFilter(intent.SocialPresence)
	if !ok {
		return &RequestError{Field: "socialPresence", Detail: "must be one of any, low, medium, high"}
	}
	if presence == providers.PresenceFilterAny {
		presence = ""
	}
	intent.SocialPresence = presence

	if intent.Limit < 0 {
		return &RequestError{Field: "limit", Detail: "limit must be positive"}
	}
	if intent.Page < 0 {
		return &RequestError{Field: "page", Detail: "page must be positive"}
	}
	return nil
}

// GetRun loads a single run by id.
func (s *Service) GetRun(ctx context.Context, id int64) (Run, error) {
	return s.Runs.GetByID(ctx, id)
}

// ListRuns returns the most recent runs.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.Runs.ListRecent(ctx, limit)
}
