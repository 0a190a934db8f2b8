package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client is the slice of the S3 API the store uses. An [s3.Client]
// satisfies it; tests substitute an in-memory fake.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store keeps voice artifacts in an S3 bucket (or any S3-compatible
// object store), which is how cloned profiles move between machines:
// archived from the box that cloned them, restored wherever synthesis
// runs.
//
// Storage paths map to object keys under an optional prefix. The
// client carries its own credentials, region, and endpoint.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 wraps a pre-configured client as a FileStore. Prefix is
// prepended to every object key; pass "" for none.
func NewS3(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) objectKey(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// Read streams the named artifact via GetObject. A missing key comes
// back as an error wrapping os.ErrNotExist, matching the local store.
func (s *S3Store) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return out.Body, nil
}

// Write returns a writer whose bytes stream into a background
// PutObject through a pipe. The caller must Close the writer; Close
// blocks until the upload finishes and reports its error.
func (s *S3Store) Write(ctx context.Context, path string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &objectWriter{pipe: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		_, w.err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(s.objectKey(path)),
			Body:        pr,
			ContentType: aws.String(artifactContentType(path)),
		})
		// Unblock pending writes if the upload died early.
		pr.CloseWithError(w.err)
	}()
	return w, nil
}

// Delete removes the named artifact. DeleteObject succeeds for missing
// keys, so Delete is idempotent like the local store.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// Exists checks for the artifact via HeadObject.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(path)),
	})
	if err != nil {
		if isMissingObject(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: head %s: %w", path, err)
	}
	return true, nil
}

// objectWriter feeds the background PutObject through an io.Pipe.
type objectWriter struct {
	pipe *io.PipeWriter
	done chan struct{}
	err  error
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.pipe.Write(p)
}

func (w *objectWriter) Close() error {
	w.pipe.Close() // EOF to the upload
	<-w.done
	return w.err
}

// artifactContentType tags profile artifacts so a bucket browser shows
// them sensibly.
func artifactContentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".wav"):
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// isMissingObject reports whether err means the key does not exist.
func isMissingObject(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var _ FileStore = (*S3Store)(nil)
