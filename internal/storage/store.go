package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a key has no stored object.
var ErrObjectNotFound = errors.New("object not found")

// ReceiptStore keeps receipt files keyed by path.
type ReceiptStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// PresignGet returns a URL that serves the object without credentials
	// until ttl has elapsed.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
