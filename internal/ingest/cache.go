package ingest

import "time"

// cacheFresh reports whether a successful run can be served from the
// run cache. Only success runs age out, and age is anchored on creation
// time: a retried run does not get a new cache lifetime.
func cacheFresh(run Run, ttl time.Duration, now time.Time) bool {
	if run.Status != StatusSuccess {
		return false
	}
	if ttl <= 0 {
		return false
	}
	return now.Sub(run.CreatedAt) <= ttl
}

// summaryFromRun projects a persisted run into the caller-facing
// summary shape.
func summaryFromRun(run Run, cached bool) Summary {
	s := Summary{
		RunID:             run.ID,
		Cached:            cached,
		Status:            run.Status,
		Provider:          run.Provider,
		RequestID:         run.RequestID,
		FetchedCount:      run.FetchedCount,
		ReturnedCount:     run.ReturnedCount,
		InsertedRaw:       run.InsertedRaw,
		SkippedDuplicates: run.SkippedDuplicates,
		NextCursor:        run.NextCursor,
		Exhausted:         run.Exhausted,
		Intent:            run.Intent,
	}
	if run.Status == StatusError && run.ErrorCode != "" {
		retryable := IsRetryable(run.ErrorCode, false)
		s.Retryable = retryable
		s.Error = &SummaryError{
			Code:      run.ErrorCode,
			Message:   run.ErrorMessage,
			Retryable: retryable,
		}
		if retryable {
			s.RetryAfterSeconds = RetryAfterSeconds(run.ErrorCode, 0)
		}
	}
	return s
}
