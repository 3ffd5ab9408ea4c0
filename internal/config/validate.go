package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("api.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.PacingSeconds < 0 {
		return errors.New("pipeline.pacing_seconds must not be negative")
	}
	if c.Pipeline.RateLimitFallbackSeconds <= 0 {
		return errors.New("pipeline.rate_limit_fallback_seconds must be positive")
	}
	if c.Pipeline.MaxAttempts < 0 {
		return errors.New("pipeline.max_attempts must not be negative (zero means unlimited)")
	}
	if c.Pipeline.TransportRetries < 0 {
		return errors.New("pipeline.transport_retries must not be negative")
	}
	if c.Pipeline.TransportRetryBackoffSeconds < 0 {
		return errors.New("pipeline.transport_retry_backoff_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
