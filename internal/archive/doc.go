// Package archive reads exported post archives and filters them into the
// deletion work set. Both halves are deterministic I/O: loading fails fast on
// malformed input, and the filter is a pure date predicate over the records.
package archive
