package pipeline

import (
	"context"
	"log/slog"

	"postsweep/internal/logging"
	"postsweep/internal/queue"
	"postsweep/internal/ratelimit"
)

// Transport is the deletion capability the executor drives. The concrete
// implementation owns authentication and HTTP; the executor only sees
// classified signals.
type Transport interface {
	Delete(ctx context.Context, id uint64) ratelimit.Signal
}

// Resolution is the terminal result for one item.
type Resolution struct {
	Outcome  ratelimit.Outcome
	Attempts int
}

// Executor resolves a single work item: it calls the transport, feeds the
// classified signal through the rate-limit policy, and repeats until the
// policy proceeds or aborts. Rate-limit waits happen here and are the only
// voluntary suspension besides inter-item pacing.
type Executor struct {
	transport Transport
	policy    ratelimit.Policy
	sleeper   Sleeper
	logger    *slog.Logger
}

// NewExecutor wires a deletion executor. A nil sleeper uses the wall clock;
// a nil logger is replaced with a no-op.
func NewExecutor(transport Transport, policy ratelimit.Policy, sleeper Sleeper, logger *slog.Logger) *Executor {
	if sleeper == nil {
		sleeper = StandardSleeper{}
	}
	return &Executor{
		transport: transport,
		policy:    policy,
		sleeper:   sleeper,
		logger:    logging.NewComponentLogger(logger, "executor"),
	}
}

// Execute drives one item to a terminal outcome. A returned error means the
// whole pipeline must abort; the item is presumed not deleted and stays in
// the checkpoint.
func (e *Executor) Execute(ctx context.Context, item queue.Item) (Resolution, error) {
	itemCtx := logging.WithPostID(ctx, item.ID)
	logger := logging.WithContext(itemCtx, e.logger)

	attempts := 0
	transportFailures := 0
	for {
		attempts++
		signal := e.transport.Delete(itemCtx, item.ID)
		if signal.Kind == ratelimit.KindTransportError {
			transportFailures++
		} else {
			transportFailures = 0
		}

		action := e.policy.Next(signal, ratelimit.Attempt{
			Total:             attempts,
			TransportFailures: transportFailures,
		})

		switch action.Kind {
		case ratelimit.ActionProceed:
			return Resolution{Outcome: action.Outcome, Attempts: attempts}, nil

		case ratelimit.ActionWait:
			if signal.Kind == ratelimit.KindTransportError {
				logger.Warn("transport failure, retrying",
					logging.Error(signal.Err),
					logging.Int(logging.FieldAttempt, attempts),
					logging.Duration(logging.FieldWait, action.Delay),
				)
			} else {
				logger.Info("rate limited, waiting",
					logging.Duration(logging.FieldWait, action.Delay),
					logging.Int(logging.FieldAttempt, attempts),
				)
			}
			e.sleeper.Sleep(action.Delay)

		case ratelimit.ActionFatal:
			return Resolution{Attempts: attempts}, action.Err
		}
	}
}
