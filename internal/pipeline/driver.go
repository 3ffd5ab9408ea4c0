package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postsweep/internal/logging"
	"postsweep/internal/queue"
	"postsweep/internal/ratelimit"
)

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	// OutcomeCompleted means every queued item reached a terminal outcome.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCancelled means cancellation was observed between items.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeAborted means an item hit a fatal error and processing stopped.
	OutcomeAborted Outcome = "aborted"
)

// Result summarizes a pipeline run.
type Result struct {
	Outcome   Outcome
	Deleted   int
	Skipped   int
	Remaining int
	Err       error
}

// Recorder receives per-item resolutions, typically the run journal. A nil
// recorder is valid; recording failures are logged, never fatal.
type Recorder interface {
	RecordItem(ctx context.Context, id uint64, outcome ratelimit.Outcome, attempts int) error
}

// Driver iterates the ordered work queue: one item in flight at a time,
// checkpoint flushed after every resolution, cancellation observed between
// items only, and a final flush guaranteed on every exit path.
type Driver struct {
	queue      *queue.Queue
	checkpoint *queue.Checkpoint
	executor   *Executor
	recorder   Recorder
	pacing     time.Duration
	sleeper    Sleeper
	logger     *slog.Logger
}

// NewDriver wires a pipeline driver. recorder may be nil; a nil sleeper uses
// the wall clock.
func NewDriver(q *queue.Queue, cp *queue.Checkpoint, executor *Executor, recorder Recorder, pacing time.Duration, sleeper Sleeper, logger *slog.Logger) *Driver {
	if sleeper == nil {
		sleeper = StandardSleeper{}
	}
	return &Driver{
		queue:      q,
		checkpoint: cp,
		executor:   executor,
		recorder:   recorder,
		pacing:     pacing,
		sleeper:    sleeper,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes the queue until it drains, cancellation is observed, or an
// item fails fatally. The final checkpoint flush runs regardless of why the
// run stopped, so interrupted runs resume from the exact remaining set.
func (d *Driver) Run(ctx context.Context) (result Result) {
	logger := logging.WithContext(ctx, d.logger)

	defer func() {
		if err := d.checkpoint.Flush(d.queue); err != nil {
			logger.Error("final checkpoint flush failed", logging.Error(err))
			if result.Err == nil {
				result.Err = fmt.Errorf("final checkpoint flush: %w", err)
			}
		}
		result.Remaining = d.queue.Len()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cancellation observed, stopping before next item",
				logging.Int("remaining", d.queue.Len()))
			result.Outcome = OutcomeCancelled
			return result
		default:
		}

		item, ok := d.queue.Head()
		if !ok {
			result.Outcome = OutcomeCompleted
			return result
		}

		resolution, err := d.executor.Execute(ctx, item)
		if err != nil {
			// The in-flight item is presumed not deleted; it stays queued
			// for the final flush.
			logger.Error("deletion failed, aborting run",
				logging.Uint64(logging.FieldPostID, item.ID),
				logging.Int(logging.FieldAttempt, resolution.Attempts),
				logging.Error(err),
			)
			result.Outcome = OutcomeAborted
			result.Err = fmt.Errorf("post %d: %w", item.ID, err)
			return result
		}

		d.queue.Advance()
		if err := d.checkpoint.Flush(d.queue); err != nil {
			result.Outcome = OutcomeAborted
			result.Err = fmt.Errorf("persist checkpoint: %w", err)
			return result
		}

		switch resolution.Outcome {
		case ratelimit.OutcomeDeleted:
			result.Deleted++
			logger.Info("deleted",
				logging.Uint64(logging.FieldPostID, item.ID),
				logging.Int(logging.FieldAttempt, resolution.Attempts),
				logging.Int("remaining", d.queue.Len()),
			)
		case ratelimit.OutcomeSkippedNotFound:
			result.Skipped++
			logger.Info("already gone, skipped",
				logging.Uint64(logging.FieldPostID, item.ID),
				logging.Int("remaining", d.queue.Len()),
			)
		}

		if d.recorder != nil {
			if err := d.recorder.RecordItem(ctx, item.ID, resolution.Outcome, resolution.Attempts); err != nil {
				logger.Warn("journal record failed", logging.Error(err))
			}
		}

		if !d.queue.Empty() && d.pacing > 0 {
			d.sleeper.Sleep(d.pacing)
		}
	}
}
