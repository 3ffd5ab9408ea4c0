package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"postsweep/internal/archive"
)

// PostRecord renders one archive record for a post created at the given time.
func PostRecord(id uint64, createdAt time.Time) string {
	return fmt.Sprintf(`{"tweet":{"id":"%d","created_at":"%s"}}`,
		id, createdAt.Format(archive.CreatedAtLayout))
}

// Placeholder renders an archive record with no deletable post.
func Placeholder() string {
	return `{"tweet":null}`
}

// WriteArchive writes a JSON archive of the given records into dir and
// returns its path.
func WriteArchive(t testing.TB, dir string, records ...string) string {
	t.Helper()
	path := filepath.Join(dir, "tweets.json")
	payload := "[" + strings.Join(records, ",") + "]"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// Day returns a UTC timestamp on the given date, mid-afternoon, so date-only
// comparisons are unambiguous.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 15, 4, 5, 0, time.UTC)
}
