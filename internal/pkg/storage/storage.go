package storage

import (
	"context"
	"io"
)

// FileStorage abstracts where uploaded documents live. The only current
// backend is the local filesystem, the interface keeps the door open for an
// object store.
type FileStorage interface {
	// Upload stores a file and returns the storage path
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download retrieves a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a stored file
	Delete(ctx context.Context, path string) error

	// Exists checks if the file is present
	Exists(ctx context.Context, path string) (bool, error)
}
