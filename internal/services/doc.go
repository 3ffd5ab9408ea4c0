// Package services holds the error taxonomy shared by the transport and the
// pipeline. Sentinel markers let callers classify a failure (pre-flight
// configuration problems versus mid-run API failures) without string matching.
package services
