package ratelimit

import (
	"time"
)

// Kind identifies the class of an API outcome.
type Kind int

const (
	// KindSuccess is a confirmed deletion.
	KindSuccess Kind = iota
	// KindTooManyRequests is a throttling response, possibly carrying
	// machine-readable retry hints.
	KindTooManyRequests
	// KindNotFound means the remote resource is already gone.
	KindNotFound
	// KindFailure is any other unexpected API response.
	KindFailure
	// KindTransportError is a network-level failure; no response was read.
	KindTransportError
)

// Signal is the classified result of one deletion attempt, stripped of HTTP
// details the policy does not need.
type Signal struct {
	Kind Kind

	// RetryAfter is the server-mandated wait, when a 429 carried one.
	RetryAfter *time.Duration
	// ResetAt is the window reset timestamp, when a 429 carried one instead.
	ResetAt *time.Time

	// Status and Body describe unexpected failures for error reporting.
	Status int
	Body   string

	// Err is the underlying error for transport failures.
	Err error
}

func Success() Signal {
	return Signal{Kind: KindSuccess}
}

func NotFound() Signal {
	return Signal{Kind: KindNotFound}
}

func TooManyRequests(retryAfter *time.Duration, resetAt *time.Time) Signal {
	return Signal{Kind: KindTooManyRequests, RetryAfter: retryAfter, ResetAt: resetAt}
}

func Failure(status int, body string) Signal {
	return Signal{Kind: KindFailure, Status: status, Body: body}
}

func TransportError(err error) Signal {
	return Signal{Kind: KindTransportError, Err: err}
}
