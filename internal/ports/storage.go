package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotSupported is returned by providers that cannot perform an operation
// (e.g. gdrive cannot delegate container access to the translator).
var ErrNotSupported = errors.New("operation not supported by storage provider")

type BlobInfo struct {
	Name string
	Size int64
}

type SignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// BlobStore is the storage contract shared by the API handlers, the poller
// and the renamer. Implementations: azureblob, localfs, gdrive.
//
// Blob names live in a single flat container per deployment.
type BlobStore interface {
	Provider() string

	Put(ctx context.Context, name, contentType string, r io.Reader) (int64, error)
	Get(ctx context.Context, name string) (rc io.ReadCloser, contentType string, size int64, err error)
	List(ctx context.Context) ([]BlobInfo, error)

	// Copy duplicates src under dst and blocks until the copy completes.
	Copy(ctx context.Context, src, dst string) error
	Delete(ctx context.Context, name string) error

	// SignUpload returns a URL a client can PUT the blob body to.
	SignUpload(ctx context.Context, name string, ttl time.Duration) (SignedURL, error)
	// SignDownload returns a URL a client can GET the blob from.
	SignDownload(ctx context.Context, name string, ttl time.Duration) (SignedURL, error)
	// SignContainer returns a URL granting read+list+write+create on the whole
	// container, suitable as a translation job's source and target.
	SignContainer(ctx context.Context, ttl time.Duration) (SignedURL, error)
}
