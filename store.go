package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// SavedRecord is one published tweet together with the identifiers of the
// resources uploaded for it.
type SavedRecord struct {
	ResourceList []string        `json:"resourceList"`
	Tweet        NormalizedTweet `json:"tweet"`
}

// Store is the persisted record of already published tweets. The whole file
// is rewritten after every successful publish, so a crash mid-run loses at
// most the item being processed.
type Store struct {
	Saved []SavedRecord `json:"saved"`

	path string
}

// LoadStore reads the state file at path, creating an empty one first when
// it does not exist yet.
func LoadStore(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		empty := []byte(`{"saved":[]}`)
		if err := os.WriteFile(path, empty, 0644); err != nil {
			return nil, fmt.Errorf("creating state file: %v", err)
		}
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %v", err)
	}

	s := &Store{path: path}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, fmt.Errorf("decoding state file: %v", err)
	}
	return s, nil
}

// Contains reports whether a tweet id has already been published. Linear
// scan; the store stays small enough that an index is not worth keeping.
func (s *Store) Contains(id string) bool {
	for i := range s.Saved {
		if s.Saved[i].Tweet.ID == id {
			return true
		}
	}
	return false
}

// Append adds a record and rewrites the whole state file. Records sharing a
// tweet id with an existing one are rejected.
func (s *Store) Append(rec SavedRecord) error {
	if s.Contains(rec.Tweet.ID) {
		return fmt.Errorf("tweet %s is already saved", rec.Tweet.ID)
	}
	s.Saved = append(s.Saved, rec)

	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %v", err)
	}
	if err := os.WriteFile(s.path, buf, 0644); err != nil {
		return fmt.Errorf("writing state file: %v", err)
	}
	return nil
}
