package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"postsweep/internal/pipeline"
	"postsweep/internal/queue"
	"postsweep/internal/ratelimit"
	"postsweep/internal/services"
)

// scriptedTransport replays a fixed sequence of signals per post ID.
type scriptedTransport struct {
	scripts map[uint64][]ratelimit.Signal
	calls   []uint64
}

func (s *scriptedTransport) Delete(_ context.Context, id uint64) ratelimit.Signal {
	s.calls = append(s.calls, id)
	script := s.scripts[id]
	if len(script) == 0 {
		return ratelimit.Failure(599, "script exhausted")
	}
	next := script[0]
	s.scripts[id] = script[1:]
	return next
}

// recordingSleeper captures waits instead of sleeping.
type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) Sleep(d time.Duration) {
	r.waits = append(r.waits, d)
}

func testPolicy() ratelimit.Policy {
	return ratelimit.Policy{
		FallbackWait:     60 * time.Second,
		TransportRetries: 2,
		TransportBackoff: 5 * time.Second,
	}
}

func TestExecuteResolvesOnFirstSuccess(t *testing.T) {
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {ratelimit.Success()},
	}}
	sleeper := &recordingSleeper{}
	exec := pipeline.NewExecutor(transport, testPolicy(), sleeper, nil)

	res, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Outcome != ratelimit.OutcomeDeleted || res.Attempts != 1 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if len(sleeper.waits) != 0 {
		t.Fatalf("no waits expected, got %v", sleeper.waits)
	}
}

func TestExecuteWaitsExactRetryAfterThenRetries(t *testing.T) {
	retryAfter := 30 * time.Second
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {
			ratelimit.TooManyRequests(&retryAfter, nil),
			ratelimit.Success(),
		},
	}}
	sleeper := &recordingSleeper{}
	exec := pipeline.NewExecutor(transport, testPolicy(), sleeper, nil)

	res, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Outcome != ratelimit.OutcomeDeleted || res.Attempts != 2 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if len(sleeper.waits) != 1 || sleeper.waits[0] != 30*time.Second {
		t.Fatalf("expected exactly one 30s wait, got %v", sleeper.waits)
	}
	if len(transport.calls) != 2 || transport.calls[0] != 1 || transport.calls[1] != 1 {
		t.Fatalf("expected same item retried, calls=%v", transport.calls)
	}
}

func TestExecuteTreatsNotFoundAsTerminal(t *testing.T) {
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {ratelimit.NotFound()},
	}}
	exec := pipeline.NewExecutor(transport, testPolicy(), &recordingSleeper{}, nil)

	res, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Outcome != ratelimit.OutcomeSkippedNotFound {
		t.Fatalf("expected skipped outcome, got %+v", res)
	}
}

func TestExecutePropagatesFatalStatus(t *testing.T) {
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {ratelimit.Failure(500, "boom")},
	}}
	exec := pipeline.NewExecutor(transport, testPolicy(), &recordingSleeper{}, nil)

	_, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if !errors.Is(err, services.ErrExternalAPI) {
		t.Fatalf("expected external api error, got %v", err)
	}
}

func TestExecuteRetriesTransportFailuresWithinBudget(t *testing.T) {
	cause := errors.New("connection reset")
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {
			ratelimit.TransportError(cause),
			ratelimit.TransportError(cause),
			ratelimit.Success(),
		},
	}}
	sleeper := &recordingSleeper{}
	exec := pipeline.NewExecutor(transport, testPolicy(), sleeper, nil)

	res, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %+v", res)
	}
	if len(sleeper.waits) != 2 || sleeper.waits[0] != 5*time.Second {
		t.Fatalf("expected two 5s backoffs, got %v", sleeper.waits)
	}
}

func TestExecuteAbortsWhenTransportBudgetExhausted(t *testing.T) {
	cause := errors.New("connection reset")
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {
			ratelimit.TransportError(cause),
			ratelimit.TransportError(cause),
			ratelimit.TransportError(cause),
		},
	}}
	exec := pipeline.NewExecutor(transport, testPolicy(), &recordingSleeper{}, nil)

	_, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error after budget, got %v", err)
	}
}

func TestExecuteSuccessResetsTransportCounter(t *testing.T) {
	retryAfter := time.Second
	cause := errors.New("timeout")
	// Two transport failures, a 429, then two more transport failures: the
	// counter must reset at the 429, keeping the run within budget.
	transport := &scriptedTransport{scripts: map[uint64][]ratelimit.Signal{
		1: {
			ratelimit.TransportError(cause),
			ratelimit.TransportError(cause),
			ratelimit.TooManyRequests(&retryAfter, nil),
			ratelimit.TransportError(cause),
			ratelimit.TransportError(cause),
			ratelimit.Success(),
		},
	}}
	exec := pipeline.NewExecutor(transport, testPolicy(), &recordingSleeper{}, nil)

	res, err := exec.Execute(context.Background(), queue.Item{ID: 1})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if res.Attempts != 6 {
		t.Fatalf("expected 6 attempts, got %+v", res)
	}
}
