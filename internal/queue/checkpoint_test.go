package queue_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"postsweep/internal/queue"
)

func TestFlushWritesPendingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.json")
	cp := queue.NewCheckpoint(path)

	q := queue.New(testItems())
	q.Advance()

	if err := cp.Flush(q); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read checkpoint: %v", err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("checkpoint is not a JSON array: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestFlushEmptyQueueWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.json")
	cp := queue.NewCheckpoint(path)

	if err := cp.Flush(queue.New(nil)); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read checkpoint: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestFlushOverwritesPreviousCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.json")
	cp := queue.NewCheckpoint(path)

	q := queue.New(testItems())
	if err := cp.Flush(q); err != nil {
		t.Fatalf("first flush: %v", err)
	}
	q.Advance()
	q.Advance()
	if err := cp.Flush(q); err != nil {
		t.Fatalf("second flush: %v", err)
	}

	data, _ := os.ReadFile(path)
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("unmarshal checkpoint: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("checkpoint should equal remaining queue, got %d records", len(records))
	}
}

func TestAcquireRejectsSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.json")
	first := queue.NewCheckpoint(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	second := queue.NewCheckpoint(path)
	if err := second.Acquire(); !errors.Is(err, queue.ErrArchiveLocked) {
		t.Fatalf("expected ErrArchiveLocked, got %v", err)
	}
}

func TestReleaseRemovesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.json")
	cp := queue.NewCheckpoint(path)
	if err := cp.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := cp.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed, stat err=%v", err)
	}
}
