package ingest

import (
	"testing"

	"leadgen-backend/internal/providers"
)

func TestIsRetryable(t *testing.T) {
	retryable := []string{
		providers.ErrCodeTimeout,
		providers.ErrCodeUpstream,
		providers.ErrCodeRateLimited,
	}
	for _, code := range retryable {
		if !IsRetryable(code, false) {
			t.Errorf("%s should be retryable", code)
		}
	}

	terminal := []string{
		providers.ErrCodeAuth,
		providers.ErrCodeBadRequest,
		providers.ErrCodeUnknown,
		"",
	}
	for _, code := range terminal {
		if IsRetryable(code, false) {
			t.Errorf("%s should not be retryable", code)
		}
	}

	// An explicit retryable flag overrides the code table.
	if !IsRetryable(providers.ErrCodeBadRequest, true) {
		t.Error("explicit retryable flag should win")
	}
}

func TestRetryAfterSecondsDefaults(t *testing.T) {
	cases := map[string]int{
		providers.ErrCodeRateLimited: 60,
		providers.ErrCodeTimeout:     20,
		providers.ErrCodeUpstream:    30,
		providers.ErrCodeBadRequest:  0,
	}
	for code, want := range cases {
		if got := RetryAfterSeconds(code, 0); got != want {
			t.Errorf("RetryAfterSeconds(%s, 0) = %d, want %d", code, got, want)
		}
	}
}

func TestRetryAfterSecondsClampsProviderHint(t *testing.T) {
	cases := []struct {
		hint int
		want int
	}{
		{1, 5},
		{5, 5},
		{120, 120},
		{3600, 3600},
		{99999, 3600},
	}
	for _, tc := range cases {
		if got := RetryAfterSeconds(providers.ErrCodeRateLimited, tc.hint); got != tc.want {
			t.Errorf("hint %d: got %d, want %d", tc.hint, got, tc.want)
		}
	}
}
