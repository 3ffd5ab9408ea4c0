package archive

import (
	"fmt"
	"strconv"
	"time"

	"postsweep/internal/queue"
	"postsweep/internal/services"
)

// Direction selects which side of the cutoff is in scope for deletion.
type Direction string

const (
	Before Direction = "before"
	After  Direction = "after"
)

// ParseDirection validates a user-supplied direction value.
func ParseDirection(value string) (Direction, error) {
	switch Direction(value) {
	case Before, After:
		return Direction(value), nil
	default:
		return "", services.Wrap(services.ErrValidation, "archive", "direction",
			fmt.Sprintf("must be %q or %q, got %q", Before, After, value), nil)
	}
}

// Filter partitions the archive into the ordered work set. A record is in
// scope when its creation date falls strictly on the requested side of the
// cutoff; comparison is date-only because the cutoff is a bare date.
// Placeholder records (null payload) are skipped. Records with a missing or
// unparsable timestamp or identifier are an error: they indicate an archive
// the program cannot safely reason about. Input order is preserved and the
// input is never mutated.
func Filter(records []Record, cutoff time.Time, direction Direction) ([]queue.Item, error) {
	cutoffDate := truncateToDate(cutoff)

	items := make([]queue.Item, 0, len(records))
	for i, record := range records {
		if record.Post == nil {
			continue
		}
		if record.Post.CreatedAt == "" {
			return nil, services.Wrap(services.ErrValidation, "archive", "filter",
				fmt.Sprintf("record %d: created_at missing", i), nil)
		}
		created, err := time.Parse(CreatedAtLayout, record.Post.CreatedAt)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "archive", "filter",
				fmt.Sprintf("record %d: created_at %q", i, record.Post.CreatedAt), err)
		}

		createdDate := truncateToDate(created)
		inScope := false
		switch direction {
		case Before:
			inScope = createdDate.Before(cutoffDate)
		case After:
			inScope = createdDate.After(cutoffDate)
		}
		if !inScope {
			continue
		}

		if record.Post.ID == "" {
			return nil, services.Wrap(services.ErrValidation, "archive", "filter",
				fmt.Sprintf("record %d: id missing", i), nil)
		}
		id, err := strconv.ParseUint(record.Post.ID, 10, 64)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "archive", "filter",
				fmt.Sprintf("record %d: id %q is not numeric", i, record.Post.ID), err)
		}

		items = append(items, queue.Item{ID: id, Raw: record.Raw})
	}
	return items, nil
}

// truncateToDate drops the time of day, keeping the calendar date the
// timestamp carries in its own zone.
func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
