// Package queue holds the ordered work set for a deletion run and its durable
// checkpoint. The queue is FIFO over archive records; the checkpoint rewrites
// the archive file after every resolved item so an interrupted run loses at
// most the single in-flight post.
package queue
