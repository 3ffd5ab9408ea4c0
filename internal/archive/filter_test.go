package archive_test

import (
	"errors"
	"testing"
	"time"

	"postsweep/internal/archive"
	"postsweep/internal/services"
	"postsweep/internal/testsupport"
)

func loadRecords(t *testing.T, records ...string) []archive.Record {
	t.Helper()
	path := testsupport.WriteArchive(t, t.TempDir(), records...)
	loaded, err := archive.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return loaded
}

func TestFilterBeforeKeepsOlderPosts(t *testing.T) {
	records := loadRecords(t,
		testsupport.PostRecord(1, testsupport.Day(2019, time.March, 1)),
		testsupport.PostRecord(2, testsupport.Day(2021, time.July, 4)),
		testsupport.Placeholder(),
		testsupport.PostRecord(3, testsupport.Day(2018, time.December, 31)),
	)
	cutoff := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	items, err := archive.Filter(records, cutoff, archive.Before)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 3 {
		t.Fatalf("expected archive order preserved, got %d,%d", items[0].ID, items[1].ID)
	}
}

func TestFilterAfterKeepsNewerPosts(t *testing.T) {
	records := loadRecords(t,
		testsupport.PostRecord(1, testsupport.Day(2019, time.March, 1)),
		testsupport.PostRecord(2, testsupport.Day(2021, time.July, 4)),
	)
	cutoff := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	items, err := archive.Filter(records, cutoff, archive.After)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFilterPartitionsWithoutOverlap(t *testing.T) {
	records := loadRecords(t,
		testsupport.PostRecord(1, testsupport.Day(2019, time.March, 1)),
		testsupport.PostRecord(2, testsupport.Day(2020, time.January, 1)),
		testsupport.PostRecord(3, testsupport.Day(2021, time.July, 4)),
		testsupport.Placeholder(),
	)
	cutoff := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	before, err := archive.Filter(records, cutoff, archive.Before)
	if err != nil {
		t.Fatalf("Filter before: %v", err)
	}
	after, err := archive.Filter(records, cutoff, archive.After)
	if err != nil {
		t.Fatalf("Filter after: %v", err)
	}

	seen := map[uint64]int{}
	for _, item := range before {
		seen[item.ID]++
	}
	for _, item := range after {
		if seen[item.ID] > 0 {
			t.Fatalf("id %d appears on both sides of the cutoff", item.ID)
		}
	}
	// Record 2 falls exactly on the cutoff date: strictly-before and
	// strictly-after both exclude it.
	if len(before)+len(after) != 2 {
		t.Fatalf("expected cutoff-day post excluded from both sides, before=%d after=%d", len(before), len(after))
	}
}

func TestFilterComparesDateOnly(t *testing.T) {
	// 23:59 on the day before the cutoff is still before it, even though the
	// cutoff's zero time-of-day precedes it on a full-timestamp comparison.
	records := loadRecords(t,
		testsupport.PostRecord(1, time.Date(2019, time.December, 31, 23, 59, 0, 0, time.UTC)),
	)
	cutoff := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	items, err := archive.Filter(records, cutoff, archive.Before)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatal("expected last-minute post to be in scope")
	}
}

func TestFilterRejectsMalformedTimestamp(t *testing.T) {
	records := loadRecords(t, `{"tweet":{"id":"5","created_at":"not a timestamp"}}`)
	_, err := archive.Filter(records, time.Now(), archive.Before)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFilterRejectsMissingTimestamp(t *testing.T) {
	records := loadRecords(t, `{"tweet":{"id":"5"}}`)
	_, err := archive.Filter(records, time.Now(), archive.Before)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFilterRejectsNonNumericID(t *testing.T) {
	records := loadRecords(t,
		`{"tweet":{"id":"abc","created_at":"Fri Mar 01 15:04:05 +0000 2019"}}`,
	)
	cutoff := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err := archive.Filter(records, cutoff, archive.Before)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := archive.ParseDirection("sideways"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	dir, err := archive.ParseDirection("after")
	if err != nil || dir != archive.After {
		t.Fatalf("expected after, got %v err=%v", dir, err)
	}
}
