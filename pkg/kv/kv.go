// Package kv provides a small key-value store with hierarchical keys,
// used for the synthesized-utterance cache. Keys are string slices
// (e.g. ["utt", "A3F8", "9c1d..."]) joined with ':' for storage.
//
// Badger backs the on-disk store; Memory is for tests.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path of string segments. Segments must not
// contain the separator ':'.
type Key []string

func (k Key) String() string {
	return strings.Join(k, ":")
}

// encode joins the segments into the stored byte form.
func (k Key) encode() []byte {
	return []byte(strings.Join(k, ":"))
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), ":"))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with prefix iteration.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates entries whose key has the given prefix, in
	// lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases resources held by the store.
	Close() error
}

// listPrefix returns the encoded byte prefix for iteration. A trailing
// separator keeps prefix ["a","b"] from matching key ["a","bc"]. An
// empty prefix scans everything.
func listPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(prefix.encode(), ':')
}
