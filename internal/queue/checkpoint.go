package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrArchiveLocked is returned when another run already holds the checkpoint
// lock for the same archive.
var ErrArchiveLocked = errors.New("archive is locked by another postsweep run")

// Checkpoint persists the remaining work set over the archive file itself, so
// the file doubles as resume input for the next run. Writes are atomic
// (temp file + rename) and guarded by a lock file so two runs cannot chew on
// the same archive concurrently.
type Checkpoint struct {
	path string
	lock *flock.Flock
}

// NewCheckpoint builds a checkpoint store keyed by the archive path.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Acquire takes the archive lock. It does not block: a held lock means a
// second run is already working on this archive.
func (c *Checkpoint) Acquire() error {
	ok, err := c.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire archive lock: %w", err)
	}
	if !ok {
		return ErrArchiveLocked
	}
	return nil
}

// Release drops the archive lock and removes the lock file.
func (c *Checkpoint) Release() error {
	if err := c.lock.Unlock(); err != nil {
		return fmt.Errorf("release archive lock: %w", err)
	}
	_ = os.Remove(c.lock.Path())
	return nil
}

// Flush overwrites the checkpoint with the queue's pending records. After a
// successful flush the file contents equal the remaining in-memory queue.
func (c *Checkpoint) Flush(q *Queue) error {
	if q == nil {
		return errors.New("queue is nil")
	}

	payload, err := json.Marshal(q.Pending())
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// Path returns the checkpoint file path.
func (c *Checkpoint) Path() string {
	return c.path
}
