package main

import (
	"fmt"
	"time"

	"postsweep/internal/archive"
	"postsweep/internal/config"
)

const cutoffLayout = "2006-01-02"

// sweepArgs is the resolved form of the positional arguments shared by the
// run and plan commands.
type sweepArgs struct {
	archivePath string
	cutoff      time.Time
	cutoffLabel string
	direction   archive.Direction
}

func parseSweepArgs(args []string, directionFlag string) (sweepArgs, error) {
	archivePath, err := config.ExpandPath(args[0])
	if err != nil {
		return sweepArgs{}, fmt.Errorf("resolve archive path: %w", err)
	}

	cutoff, err := time.Parse(cutoffLayout, args[1])
	if err != nil {
		return sweepArgs{}, fmt.Errorf("parse cutoff %q (expected YYYY-MM-DD): %w", args[1], err)
	}

	direction, err := archive.ParseDirection(directionFlag)
	if err != nil {
		return sweepArgs{}, err
	}

	return sweepArgs{
		archivePath: archivePath,
		cutoff:      cutoff,
		cutoffLabel: args[1],
		direction:   direction,
	}, nil
}
