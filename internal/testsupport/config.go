package testsupport

import (
	"path/filepath"
	"testing"

	"postsweep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test and
// timings short enough for unit tests. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Pipeline.PacingSeconds = 0
	cfg.Pipeline.RateLimitFallbackSeconds = 1
	cfg.Journal.Path = filepath.Join(base, "journal.db")
	cfg.Logging.Format = "console"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBaseURL points the API client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.API.BaseURL = url
	}
}

// WithJournalDisabled turns off the run journal.
func WithJournalDisabled() ConfigOption {
	return func(c *config.Config) {
		c.Journal.Enabled = false
	}
}
