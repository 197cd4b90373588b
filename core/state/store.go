// Package state is the single source of truth every native package reads
// and writes through: per spec.md §5, "all storage is owned by the state
// machine; only the state-machine code may mutate it." It plays the role
// the teacher's core/state.Manager plays for nhbchain's ledger, but is
// rewritten against the flat storage.Database KV primitive rather than a
// Merkle trie: this repository has no light-client/state-root requirement
// (storage/trie was dropped — see DESIGN.md), so a namespaced key-value
// store is the simplest faithful rendition of "canonical byte encoding"
// (spec.md §6).
package state

import (
	"encoding/json"
	"fmt"

	"veles/storage"
)

// Store wraps a storage.Database with JSON-over-namespaced-key accessors.
// Every table spec.md §3 defines is a thin, typed view over one key prefix
// on the same underlying Database, exactly as the teacher's Manager layers
// dozens of tables over one trie.
type Store struct {
	db storage.Database
}

// NewStore constructs a Store over db.
func NewStore(db storage.Database) *Store {
	return &Store{db: db}
}

// getJSON loads the JSON value at key into out, reporting found=false (and
// a nil error) when the key is absent.
func (s *Store) getJSON(key []byte, out interface{}) (bool, error) {
	raw, err := s.db.Get(key)
	if err != nil {
		if err == storage.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("state: get %x: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %x: %w", key, err)
	}
	return true, nil
}

// putJSON encodes v as JSON and writes it at key.
func (s *Store) putJSON(key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode %x: %w", key, err)
	}
	if err := s.db.Put(key, raw); err != nil {
		return fmt.Errorf("state: put %x: %w", key, err)
	}
	return nil
}

// has reports whether key is present; an error from the underlying database
// is returned to the caller.
func (s *Store) has(key []byte) (bool, error) {
	return s.db.Has(key)
}

// delete removes key; deleting an absent key is not an error.
func (s *Store) delete(key []byte) error {
	if err := s.db.Delete(key); err != nil {
		return fmt.Errorf("state: delete %x: %w", key, err)
	}
	return nil
}

// iteratePrefix visits every key under prefix in sorted byte order — the
// deterministic iteration used for counting votes and scanning footprint
// reports (the timeout queues live in native/timeout's bbolt file, not
// here). fn receives the key with prefix still attached.
func (s *Store) iteratePrefix(prefix []byte, fn func(key, value []byte) error) error {
	return s.db.Iterate(prefix, fn)
}
