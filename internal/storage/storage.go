package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Download when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

type BlobStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, objectName string) ([]byte, error)
	Delete(ctx context.Context, objectName string) error
}
