package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/clerviq/voiced/pkg/voice"
)

// mockS3 is an in-memory S3 API good enough for S3Store.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

func newMockS3() *mockS3 { return &mockS3{objects: make(map[string][]byte)} }

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.objects[*in.Key] = data
	m.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	delete(m.objects, *in.Key)
	m.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

// testStores yields both implementations behind the FileStore interface.
func testStores(t *testing.T) map[string]FileStore {
	t.Helper()
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]FileStore{
		"local": local,
		"s3":    NewS3(newMockS3(), "voices", "archive"),
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := store.Write(ctx, "acme/greeter/sample.wav")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write([]byte("pcm")); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			ok, err := store.Exists(ctx, "acme/greeter/sample.wav")
			if err != nil || !ok {
				t.Fatalf("Exists = %v, %v", ok, err)
			}
			r, err := store.Read(ctx, "acme/greeter/sample.wav")
			if err != nil {
				t.Fatal(err)
			}
			data, _ := io.ReadAll(r)
			r.Close()
			if string(data) != "pcm" {
				t.Errorf("read %q", data)
			}

			if err := store.Delete(ctx, "acme/greeter/sample.wav"); err != nil {
				t.Fatal(err)
			}
			if ok, _ := store.Exists(ctx, "acme/greeter/sample.wav"); ok {
				t.Error("still exists after delete")
			}
			// Idempotent delete.
			if err := store.Delete(ctx, "acme/greeter/sample.wav"); err != nil {
				t.Errorf("second delete: %v", err)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Read(ctx, "nope/config.json")
			if err == nil {
				t.Fatal("expected error")
			}
			if name == "s3" && !errors.Is(err, os.ErrNotExist) {
				t.Errorf("err = %v, want os.ErrNotExist wrap", err)
			}
		})
	}
}

func TestLocalWriteStagesAtomically(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	w, err := store.Write(ctx, "acme/greeter/sample.wav")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("pcm")); err != nil {
		t.Fatal(err)
	}
	// Not visible at the final path until Close publishes it.
	if ok, _ := store.Exists(ctx, "acme/greeter/sample.wav"); ok {
		t.Error("artifact visible before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.Exists(ctx, "acme/greeter/sample.wav"); !ok {
		t.Error("artifact missing after Close")
	}
}

func TestLocalRejectsEscapingPath(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Read(ctx, "../outside/config.json"); err == nil {
		t.Error("Read accepted a path outside the root")
	}
	if _, err := store.Write(ctx, "../outside/config.json"); err == nil {
		t.Error("Write accepted a path outside the root")
	}
}

func writeProfileDir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range profileFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data-"+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestArchiveRestoreVoice(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "greeter")
			writeProfileDir(t, src)

			if err := ArchiveVoice(ctx, store, src, "acme/greeter"); err != nil {
				t.Fatalf("ArchiveVoice: %v", err)
			}

			dst := filepath.Join(t.TempDir(), "restored")
			if err := RestoreVoice(ctx, store, "acme/greeter", dst); err != nil {
				t.Fatalf("RestoreVoice: %v", err)
			}
			for _, fname := range profileFiles {
				data, err := os.ReadFile(filepath.Join(dst, fname))
				if err != nil {
					t.Fatalf("restored %s: %v", fname, err)
				}
				if string(data) != "data-"+fname {
					t.Errorf("%s content = %q", fname, data)
				}
			}
		})
	}
}

func TestRemoveVoice(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			src := filepath.Join(t.TempDir(), "greeter")
			writeProfileDir(t, src)

			if err := ArchiveVoice(ctx, store, src, "acme/greeter"); err != nil {
				t.Fatal(err)
			}
			if err := RemoveVoice(ctx, store, "acme/greeter"); err != nil {
				t.Fatalf("RemoveVoice: %v", err)
			}
			for _, fname := range profileFiles {
				if ok, _ := store.Exists(ctx, "acme/greeter/"+fname); ok {
					t.Errorf("%s still archived after removal", fname)
				}
			}
		})
	}
}

func TestRestoreIncompleteProfile(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			// Archive everything except the config document.
			src := filepath.Join(t.TempDir(), "partial")
			writeProfileDir(t, src)

			if err := ArchiveVoice(ctx, store, src, "acme/partial"); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, "acme/partial/"+voice.ConfigFile); err != nil {
				t.Fatal(err)
			}

			dst := filepath.Join(t.TempDir(), "restored")
			err := RestoreVoice(ctx, store, "acme/partial", dst)
			if !errors.Is(err, ErrIncompleteProfile) {
				t.Fatalf("err = %v, want ErrIncompleteProfile", err)
			}
			if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
				t.Error("partial restore left local artifacts")
			}
		})
	}
}
