// Package cache implements a tiny binary-serialized cache of generated
// parser source, keyed by a SHA-256 hash of the grammar source text that
// produced it (SPEC_FULL.md §6.4's --cache flag). Store.Get looks up the
// source stored for a grammar text; cmd/gillnet only adds entries and
// always runs the full pipeline. Grounded on the
// teacher's sqlite DAO layer, which persists a *game.State the same way:
// rezi.EncBinary to a byte slice, rezi.DecBinary back out, each write
// tagged with a google/uuid-generated identifier.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Entry is one cached generation result.
type Entry struct {
	Hash   string
	RunID  string
	Source string
}

// Store is the full on-disk cache contents, keyed by grammar source hash.
type Store struct {
	Entries map[string]Entry
}

// HashSource computes the cache key for a grammar source text.
func HashSource(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Load reads a Store from path. A missing file is not an error: it yields
// an empty Store, since the first run against any grammar has nothing to
// load yet.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{Entries: map[string]Entry{}}, nil
		}
		return Store{}, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return Store{Entries: map[string]Entry{}}, nil
	}

	var s Store
	n, err := rezi.DecBinary(data, &s)
	if err != nil {
		return Store{}, fmt.Errorf("decode cache file: %w", err)
	}
	if n != len(data) {
		return Store{}, fmt.Errorf("cache file: decoded %d/%d bytes", n, len(data))
	}
	if s.Entries == nil {
		s.Entries = map[string]Entry{}
	}
	return s, nil
}

// Save writes s to path.
func Save(path string, s Store) error {
	data := rezi.EncBinary(&s)
	return os.WriteFile(path, data, 0644)
}

// Put records a generation result for source, tagging it with a fresh run
// identifier for cross-invocation --stats correlation, and returns that
// identifier.
func (s *Store) Put(source []byte, generated string) (runID string, err error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	if s.Entries == nil {
		s.Entries = map[string]Entry{}
	}
	hash := HashSource(source)
	s.Entries[hash] = Entry{Hash: hash, RunID: id.String(), Source: generated}
	return id.String(), nil
}

// Get looks up a previously cached generation result for source.
func (s Store) Get(source []byte) (Entry, bool) {
	e, ok := s.Entries[HashSource(source)]
	return e, ok
}
