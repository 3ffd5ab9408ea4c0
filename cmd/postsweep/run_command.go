package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"postsweep/internal/archive"
	"postsweep/internal/config"
	"postsweep/internal/journal"
	"postsweep/internal/logging"
	"postsweep/internal/pipeline"
	"postsweep/internal/preflight"
	"postsweep/internal/queue"
	"postsweep/internal/ratelimit"
	"postsweep/internal/services/twitter"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var directionFlag string
	var pacingFlag int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <archive> <cutoff>",
		Short: "Delete archived posts on one side of a cutoff date",
		Long: `Run deletes every post in the archive whose creation date falls on the
requested side of the cutoff (YYYY-MM-DD). Posts are processed oldest-first in
archive order, one at a time, and the archive file is rewritten after every
resolution so an interrupted run resumes where it left off.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, ctx, args, directionFlag, pacingFlag, dryRun)
		},
	}

	cmd.Flags().StringVar(&directionFlag, "direction", string(archive.Before), `Which side of the cutoff to delete ("before" or "after")`)
	cmd.Flags().IntVar(&pacingFlag, "pacing", -1, "Seconds to wait between posts (-1 uses the configured value)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve the work set without deleting anything")
	return cmd
}

func runSweep(cmd *cobra.Command, cctx *commandContext, args []string, directionFlag string, pacingFlag int, dryRun bool) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := cctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sweep, err := parseSweepArgs(args, directionFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	records, err := archive.Load(sweep.archivePath)
	if err != nil {
		return err
	}
	items, err := archive.Filter(records, sweep.cutoff, sweep.direction)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(out, "dry run: %d of %d posts match (%s %s); nothing deleted\n",
			len(items), len(records), sweep.direction, sweep.cutoffLabel)
		return nil
	}

	if results := preflight.RunAll(cfg, sweep.archivePath); preflight.Failed(results) {
		for _, result := range results {
			if !result.Passed {
				fmt.Fprintf(out, "preflight: %s: %s\n", result.Name, result.Detail)
			}
		}
		return errors.New("preflight checks failed")
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, err := newRunLogger(cfg, runID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	checkpoint := queue.NewCheckpoint(sweep.archivePath)
	if err := checkpoint.Acquire(); err != nil {
		if errors.Is(err, queue.ErrArchiveLocked) {
			return fmt.Errorf("archive %s is in use by another run", sweep.archivePath)
		}
		return fmt.Errorf("lock archive: %w", err)
	}
	defer func() {
		if releaseErr := checkpoint.Release(); releaseErr != nil {
			logger.Warn("release archive lock", logging.Error(releaseErr))
		}
	}()

	pacing := time.Duration(cfg.Pipeline.PacingSeconds) * time.Second
	if pacingFlag >= 0 {
		pacing = time.Duration(pacingFlag) * time.Second
	}

	policy := ratelimit.Policy{
		FallbackWait:     time.Duration(cfg.Pipeline.RateLimitFallbackSeconds) * time.Second,
		MaxAttempts:      cfg.Pipeline.MaxAttempts,
		TransportRetries: cfg.Pipeline.TransportRetries,
		TransportBackoff: time.Duration(cfg.Pipeline.TransportRetryBackoffSeconds) * time.Second,
	}

	client := twitter.NewClient(cfg, creds)
	executor := pipeline.NewExecutor(client, policy, nil, logger)

	var store *journal.Store
	var recorder pipeline.Recorder
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			logger.Warn("open journal", logging.Error(err))
			store = nil
		} else {
			defer store.Close()
			if err := store.StartRun(signalCtx, runID, sweep.archivePath, sweep.cutoffLabel, string(sweep.direction)); err != nil {
				logger.Warn("record run start", logging.Error(err))
			} else {
				recorder = store.Recorder(runID)
			}
		}
	}

	logger.Info("run starting",
		logging.String(logging.FieldArchive, sweep.archivePath),
		logging.String("cutoff", sweep.cutoffLabel),
		logging.String("direction", string(sweep.direction)),
		logging.Int("matched", len(items)),
		logging.Int("archived", len(records)),
	)

	runCtx := logging.WithRunID(signalCtx, runID)
	driver := pipeline.NewDriver(queue.New(items), checkpoint, executor, recorder, pacing, nil, logger)
	result := driver.Run(runCtx)

	if recorder != nil && store != nil {
		errMsg := ""
		if result.Err != nil {
			errMsg = result.Err.Error()
		}
		if err := store.FinishRun(context.Background(), runID, string(result.Outcome), errMsg,
			result.Deleted, result.Skipped, result.Remaining); err != nil {
			logger.Warn("record run finish", logging.Error(err))
		}
	}

	fmt.Fprintf(out, "%s: %d deleted, %d skipped, %d remaining\n",
		result.Outcome, result.Deleted, result.Skipped, result.Remaining)

	switch result.Outcome {
	case pipeline.OutcomeAborted:
		return result.Err
	case pipeline.OutcomeCancelled:
		fmt.Fprintln(out, "interrupted; rerun the same command to resume from the archive")
	}
	return nil
}

func newRunLogger(cfg *config.Config, runID string) (*slog.Logger, error) {
	outputs := []string{"stdout"}
	errorOutputs := []string{"stderr"}
	if cfg.Logging.Dir != "" {
		logPath := filepath.Join(cfg.Logging.Dir, fmt.Sprintf("postsweep-%s.log", runID))
		outputs = append(outputs, logPath)
		errorOutputs = append(errorOutputs, logPath)
	}
	return logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: errorOutputs,
	})
}
