// Package preflight provides readiness checks for the credentials and
// filesystem paths a deletion run depends on.
//
// The run command calls RunAll before touching the archive so a misconfigured
// environment fails fast instead of partway through a run.
package preflight
