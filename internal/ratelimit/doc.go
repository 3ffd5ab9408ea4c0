// Package ratelimit classifies deletion-API outcomes and decides whether the
// executor should resolve an item, wait and retry, or abort the run. It is
// pure decision logic: no clock sleeps and no I/O happen here, which keeps
// the retry state machine testable without real time.
package ratelimit
