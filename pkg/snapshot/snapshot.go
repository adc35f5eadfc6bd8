// Package snapshot persists the HTML of a document under a key, on local
// disk or in an S3 bucket.
package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/vango-dev/nodeview/internal/errors"
	"github.com/vango-dev/nodeview/pkg/dom"
)

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = stderrors.New("snapshot: not found")

// ErrInvalidKey is returned for empty keys or keys escaping the store.
var ErrInvalidKey = stderrors.New("snapshot: invalid key")

// ContentType of stored snapshots.
const ContentType = "text/html; charset=utf-8"

// Info describes a stored snapshot.
type Info struct {
	Key       string
	Size      int64
	CreatedAt time.Time
}

// Store persists snapshots.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (Info, error)
	Load(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// Capture serializes every element of doc.
func Capture(doc *dom.Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, storeError("capture", "", err)
	}
	return buf.Bytes(), nil
}

// Write captures doc and saves it under key.
func Write(ctx context.Context, store Store, key string, doc *dom.Document) (Info, error) {
	data, err := Capture(doc)
	if err != nil {
		return Info{}, err
	}
	return store.Save(ctx, key, bytes.NewReader(data))
}

// ValidateKey rejects keys that are empty, absolute or contain "..".
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.ContainsRune(key, '\\') {
		return storeError("validate", key, ErrInvalidKey)
	}
	return nil
}

func storeError(op, key string, err error) error {
	e := errors.New("E501").Wrap(err)
	if key != "" {
		return e.WithDetailf("%s %q", op, key)
	}
	return e.WithDetail(op)
}

// Options selects and configures a store.
type Options struct {
	// Dir enables the disk store.
	Dir string

	// Bucket enables the S3 store and takes precedence over Dir.
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// Open builds the store described by opts. It returns nil when neither a
// bucket nor a directory is configured.
func Open(opts Options) (Store, error) {
	switch {
	case opts.Bucket != "":
		client := NewS3Client(S3ClientOptions{
			Region:       opts.Region,
			Endpoint:     opts.Endpoint,
			UsePathStyle: opts.UsePathStyle,
		})
		return NewS3Store(client, opts.Bucket, opts.Prefix), nil
	case opts.Dir != "":
		return NewDiskStore(opts.Dir)
	}
	return nil, nil
}
