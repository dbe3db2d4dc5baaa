// Package storage abstracts the artifact store for pictures and PDFs.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the object does not exist.
// Delete never returns it: removing a missing object is a success.
var ErrNotFound = errors.New("storage: object not found")

// Storage is the narrow contract the services depend on.
type Storage interface {
	// Store writes data under the given path, overwriting any prior object.
	Store(ctx context.Context, path string, data []byte) error
	// Read returns the object bytes or ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, path string) error
}
