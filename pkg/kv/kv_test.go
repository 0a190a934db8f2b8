package kv

import (
	"context"
	"errors"
	"testing"
)

// stores under test: the in-memory implementation and badger without
// disk persistence.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	b, err := NewBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"badger": b,
	}
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			key := Key{"utt", "A3F8", "greeting"}

			if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("get missing: err = %v, want ErrNotFound", err)
			}
			if err := s.Set(ctx, key, []byte("pcm-bytes")); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := s.Get(ctx, key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != "pcm-bytes" {
				t.Errorf("get = %q", got)
			}

			// Overwrite.
			if err := s.Set(ctx, key, []byte("v2")); err != nil {
				t.Fatal(err)
			}
			got, _ = s.Get(ctx, key)
			if string(got) != "v2" {
				t.Errorf("after overwrite = %q", got)
			}

			if err := s.Delete(ctx, key); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Errorf("get after delete: err = %v, want ErrNotFound", err)
			}
			// Idempotent.
			if err := s.Delete(ctx, key); err != nil {
				t.Errorf("delete absent: %v", err)
			}
		})
	}
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			entries := map[string]Key{
				"a": {"utt", "A3F8", "hello"},
				"b": {"utt", "A3F8", "goodbye"},
				"c": {"utt", "B111", "hello"},
				"d": {"uttx", "A3F8", "hello"}, // shares a byte prefix, different segment
			}
			for v, k := range entries {
				if err := s.Set(ctx, k, []byte(v)); err != nil {
					t.Fatal(err)
				}
			}

			var got []string
			for e, err := range s.List(ctx, Key{"utt", "A3F8"}) {
				if err != nil {
					t.Fatalf("list: %v", err)
				}
				got = append(got, e.Key.String())
			}
			want := []string{"utt:A3F8:goodbye", "utt:A3F8:hello"}
			if len(got) != len(want) {
				t.Fatalf("list = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("list[%d] = %q, want %q", i, got[i], want[i])
				}
			}
		})
	}
}

func TestListEarlyStop(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []Key{{"v", "1"}, {"v", "2"}, {"v", "3"}} {
				if err := s.Set(ctx, k, []byte("x")); err != nil {
					t.Fatal(err)
				}
			}
			n := 0
			for range s.List(ctx, Key{"v"}) {
				n++
				if n == 2 {
					break
				}
			}
			if n != 2 {
				t.Errorf("visited %d entries, want 2", n)
			}
		})
	}
}
