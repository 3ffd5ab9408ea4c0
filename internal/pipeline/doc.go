// Package pipeline contains the deletion core: the executor that drives one
// item through the rate-limit policy to a terminal outcome, and the driver
// that walks the FIFO queue, persists checkpoints after every resolution,
// paces between items, and guarantees a final flush on every exit path.
package pipeline
