// Package storage abstracts the blob store that holds uploaded photo
// bytes. Game state only ever references blobs by opaque ref.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: object not found")

// Store is the content store boundary. Delete must tolerate refs that
// are already gone so cleanup can be re-run after a partial failure.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	URL(ctx context.Context, ref string) (string, error)
	Delete(ctx context.Context, ref string) error
}
