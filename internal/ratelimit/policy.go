package ratelimit

import (
	"fmt"
	"time"

	"postsweep/internal/services"
)

// Outcome is a terminal per-item result after which no further retry occurs.
type Outcome string

const (
	// OutcomeDeleted means the remote service confirmed the deletion.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeSkippedNotFound means the post was already gone. Terminal
	// success for queue advancement, kept distinct for reporting.
	OutcomeSkippedNotFound Outcome = "skipped_not_found"
)

// ActionKind identifies what the executor should do next.
type ActionKind int

const (
	// ActionProceed resolves the item with Action.Outcome.
	ActionProceed ActionKind = iota
	// ActionWait suspends for Action.Delay, then retries the same item.
	ActionWait
	// ActionFatal aborts the whole pipeline with Action.Err.
	ActionFatal
)

// Action is the policy's verdict for one classified attempt.
type Action struct {
	Kind    ActionKind
	Outcome Outcome
	Delay   time.Duration
	Err     error
}

// Attempt describes how far along the executor is with the current item.
type Attempt struct {
	// Total counts delete attempts for this item, including the current one.
	Total int
	// TransportFailures counts consecutive network-level failures ending
	// with the current attempt.
	TransportFailures int
}

// Policy decides, from a classified API outcome, whether to resolve an item,
// wait and retry, or abort the run.
type Policy struct {
	// FallbackWait applies to a 429 with no machine-readable hint. The
	// service is known to throttle without guidance in some API revisions,
	// so an unexplained 429 waits rather than failing.
	FallbackWait time.Duration
	// MaxAttempts caps attempts per item; zero means unlimited.
	MaxAttempts int
	// TransportRetries is the number of additional tries after a
	// network-level failure; zero aborts on the first one.
	TransportRetries int
	// TransportBackoff is the fixed delay before each transport retry.
	TransportBackoff time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Next maps a signal to the executor's next action.
func (p Policy) Next(signal Signal, attempt Attempt) Action {
	switch signal.Kind {
	case KindSuccess:
		return Action{Kind: ActionProceed, Outcome: OutcomeDeleted}

	case KindNotFound:
		// The resource is already gone: terminal success. This also makes
		// retries idempotent when a prior delete succeeded but its response
		// was lost.
		return Action{Kind: ActionProceed, Outcome: OutcomeSkippedNotFound}

	case KindTooManyRequests:
		if p.MaxAttempts > 0 && attempt.Total >= p.MaxAttempts {
			return Action{Kind: ActionFatal, Err: services.Wrap(services.ErrRateLimited, "ratelimit", "retry",
				fmt.Sprintf("attempt budget of %d exhausted", p.MaxAttempts), nil)}
		}
		return Action{Kind: ActionWait, Delay: p.rateLimitDelay(signal)}

	case KindTransportError:
		if attempt.TransportFailures <= p.TransportRetries {
			return Action{Kind: ActionWait, Delay: p.TransportBackoff}
		}
		return Action{Kind: ActionFatal, Err: services.Wrap(services.ErrTransient, "ratelimit", "delete",
			fmt.Sprintf("transport failed %d times", attempt.TransportFailures), signal.Err)}

	default:
		return Action{Kind: ActionFatal, Err: services.Wrap(services.ErrExternalAPI, "ratelimit", "delete",
			fmt.Sprintf("unexpected status %d: %s", signal.Status, truncateBody(signal.Body)), nil)}
	}
}

func (p Policy) rateLimitDelay(signal Signal) time.Duration {
	if signal.RetryAfter != nil {
		return *signal.RetryAfter
	}
	if signal.ResetAt != nil {
		now := time.Now
		if p.Now != nil {
			now = p.Now
		}
		delay := signal.ResetAt.Sub(now())
		if delay < 0 {
			delay = 0
		}
		return delay
	}
	return p.FallbackWait
}

func truncateBody(body string) string {
	const limit = 200
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
