package archive

import (
	"encoding/json"
	"fmt"
	"os"

	"postsweep/internal/services"
)

// CreatedAtLayout is the fixed timestamp format the archive producer emits.
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Post is the nested payload of an archive record. Placeholder records carry
// a null payload and no deletable post.
type Post struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// Record is one element of the exported archive array. The raw bytes are
// retained verbatim so checkpoints replay records in their original shape.
type Record struct {
	Post *Post
	Raw  json.RawMessage
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Tweet *Post `json:"tweet"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	r.Post = envelope.Tweet
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// Load reads an exported archive: a JSON array of records. Unreadable or
// malformed input is fatal; the format is fixed by its producer, so there is
// nothing to recover.
func Load(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "archive", "load", fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	var records []Record
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&records); err != nil {
		return nil, services.Wrap(services.ErrInput, "archive", "load", fmt.Sprintf("parse %s", path), err)
	}
	return records, nil
}
