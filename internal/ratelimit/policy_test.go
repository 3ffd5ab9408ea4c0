package ratelimit_test

import (
	"errors"
	"testing"
	"time"

	"postsweep/internal/ratelimit"
	"postsweep/internal/services"
)

func basePolicy() ratelimit.Policy {
	return ratelimit.Policy{
		FallbackWait:     60 * time.Second,
		TransportRetries: 2,
		TransportBackoff: 5 * time.Second,
	}
}

func TestSuccessProceedsDeleted(t *testing.T) {
	action := basePolicy().Next(ratelimit.Success(), ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionProceed || action.Outcome != ratelimit.OutcomeDeleted {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestNotFoundProceedsAsSkipped(t *testing.T) {
	action := basePolicy().Next(ratelimit.NotFound(), ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionProceed || action.Outcome != ratelimit.OutcomeSkippedNotFound {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestRetryAfterWinsOverReset(t *testing.T) {
	retryAfter := 30 * time.Second
	resetAt := time.Now().Add(5 * time.Minute)
	signal := ratelimit.TooManyRequests(&retryAfter, &resetAt)

	action := basePolicy().Next(signal, ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionWait || action.Delay != 30*time.Second {
		t.Fatalf("expected 30s wait, got %+v", action)
	}
}

func TestResetAtComputesRemainingWait(t *testing.T) {
	now := time.Date(2023, time.May, 1, 12, 0, 0, 0, time.UTC)
	resetAt := now.Add(90 * time.Second)

	policy := basePolicy()
	policy.Now = func() time.Time { return now }

	action := policy.Next(ratelimit.TooManyRequests(nil, &resetAt), ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionWait || action.Delay != 90*time.Second {
		t.Fatalf("expected 90s wait, got %+v", action)
	}
}

func TestResetAtInPastWaitsZero(t *testing.T) {
	now := time.Date(2023, time.May, 1, 12, 0, 0, 0, time.UTC)
	resetAt := now.Add(-time.Minute)

	policy := basePolicy()
	policy.Now = func() time.Time { return now }

	action := policy.Next(ratelimit.TooManyRequests(nil, &resetAt), ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionWait || action.Delay != 0 {
		t.Fatalf("expected zero wait, got %+v", action)
	}
}

func TestUnexplained429UsesFallback(t *testing.T) {
	action := basePolicy().Next(ratelimit.TooManyRequests(nil, nil), ratelimit.Attempt{Total: 5})
	if action.Kind != ratelimit.ActionWait || action.Delay != 60*time.Second {
		t.Fatalf("expected fallback wait, got %+v", action)
	}
}

func TestRateLimitWaitsRecurWithoutCap(t *testing.T) {
	policy := basePolicy()
	for total := 1; total < 1000; total *= 10 {
		action := policy.Next(ratelimit.TooManyRequests(nil, nil), ratelimit.Attempt{Total: total})
		if action.Kind != ratelimit.ActionWait {
			t.Fatalf("attempt %d: expected wait, got %+v", total, action)
		}
	}
}

func TestMaxAttemptsTurnsRateLimitFatal(t *testing.T) {
	policy := basePolicy()
	policy.MaxAttempts = 3

	action := policy.Next(ratelimit.TooManyRequests(nil, nil), ratelimit.Attempt{Total: 3})
	if action.Kind != ratelimit.ActionFatal {
		t.Fatalf("expected fatal at attempt cap, got %+v", action)
	}
	if !errors.Is(action.Err, services.ErrRateLimited) {
		t.Fatalf("expected rate-limited marker, got %v", action.Err)
	}
}

func TestUnexpectedStatusIsFatal(t *testing.T) {
	action := basePolicy().Next(ratelimit.Failure(500, "oops"), ratelimit.Attempt{Total: 1})
	if action.Kind != ratelimit.ActionFatal {
		t.Fatalf("expected fatal, got %+v", action)
	}
	if !errors.Is(action.Err, services.ErrExternalAPI) {
		t.Fatalf("expected external api marker, got %v", action.Err)
	}
}

func TestTransportErrorsRetryWithinBudget(t *testing.T) {
	policy := basePolicy()
	cause := errors.New("connection reset")

	action := policy.Next(ratelimit.TransportError(cause), ratelimit.Attempt{Total: 1, TransportFailures: 1})
	if action.Kind != ratelimit.ActionWait || action.Delay != 5*time.Second {
		t.Fatalf("expected backoff wait, got %+v", action)
	}

	action = policy.Next(ratelimit.TransportError(cause), ratelimit.Attempt{Total: 3, TransportFailures: 3})
	if action.Kind != ratelimit.ActionFatal {
		t.Fatalf("expected fatal after budget, got %+v", action)
	}
	if !errors.Is(action.Err, services.ErrTransient) || !errors.Is(action.Err, cause) {
		t.Fatalf("expected transient marker wrapping cause, got %v", action.Err)
	}
}

func TestZeroTransportRetriesFailsImmediately(t *testing.T) {
	policy := basePolicy()
	policy.TransportRetries = 0

	action := policy.Next(ratelimit.TransportError(errors.New("refused")), ratelimit.Attempt{Total: 1, TransportFailures: 1})
	if action.Kind != ratelimit.ActionFatal {
		t.Fatalf("expected immediate fatal, got %+v", action)
	}
}
