package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

// FileStorage keeps uploaded files under slash-separated keys.
type FileStorage interface {
	// Upload writes file under key, replacing any existing file, and returns
	// the normalized key.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download opens the file stored under key. Callers close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. A missing file is not an error.
	Delete(ctx context.Context, key string) error

	// URL is the public address of key.
	URL(key string) string
}
