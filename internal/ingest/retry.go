package ingest

import "leadgen-backend/internal/providers"

const (
	minProviderRetryAfter = 5
	maxProviderRetryAfter = 3600
)

// IsRetryable classifies a stored or fresh provider error. Error codes come
// back from the store as plain strings, so this stays tolerant.
func IsRetryable(code string, retryable bool) bool {
	if retryable {
		return true
	}
	switch code {
	case providers.ErrCodeTimeout, providers.ErrCodeUpstream, providers.ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

// RetryAfterSeconds derives a backoff hint for a failed run: a positive
// provider suggestion clamped to [5, 3600], otherwise a fixed per-code
// default.
func RetryAfterSeconds(code string, providerSuggested int) int {
	if providerSuggested > 0 {
		if providerSuggested < minProviderRetryAfter {
			return minProviderRetryAfter
		}
		if providerSuggested > maxProviderRetryAfter {
			return maxProviderRetryAfter
		}
		return providerSuggested
	}

	switch code {
	case providers.ErrCodeRateLimited:
		return 60
	case providers.ErrCodeTimeout:
		return 20
	case providers.ErrCodeUpstream:
		return 30
	default:
		return 0
	}
}
