package config

const (
	defaultAPIBaseURL                   = "https://api.twitter.com"
	defaultAPIRequestTimeout            = 30
	defaultPacingSeconds                = 10
	defaultRateLimitFallbackSeconds     = 60
	defaultTransportRetries             = 2
	defaultTransportRetryBackoffSeconds = 5
	defaultJournalPath                  = "~/.local/share/postsweep/journal.db"
	defaultLogFormat                    = "auto"
	defaultLogLevel                     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultAPIBaseURL,
			RequestTimeout: defaultAPIRequestTimeout,
		},
		Pipeline: Pipeline{
			PacingSeconds:                defaultPacingSeconds,
			RateLimitFallbackSeconds:     defaultRateLimitFallbackSeconds,
			MaxAttempts:                  0,
			TransportRetries:             defaultTransportRetries,
			TransportRetryBackoffSeconds: defaultTransportRetryBackoffSeconds,
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
