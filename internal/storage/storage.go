package storage

import (
	"context"
	"fmt"
	"time"
)

// ObjectStorage is the object-store contract used by the receipt pipeline.
// Implementations are constructed explicitly and injected; there is no
// process-global client.
type ObjectStorage interface {
	// Put writes data under an exact key, overwriting any existing object,
	// and returns a retrievable location. contentType must describe the
	// stored bytes (post-transcode), not the original upload's claim.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object referenced by a key or a previously stored
	// location. A missing object is not an error. Failures are returned so
	// callers can log and continue; deletion never blocks the surrounding
	// database operation.
	Delete(ctx context.Context, keyOrLocation string) error

	// SignedURL mints a time-limited read URL for key, valid for ttl from
	// issuance. Callers must not cache it beyond its validity.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Key recovers the storage key from a location previously returned by
	// Put. A bare key is returned unchanged.
	Key(location string) string
}

// Config holds object storage configuration.
type Config struct {
	Type      string // s3, memory
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // For S3-compatible stores
	BaseURL   string // Public URL base for stored objects
}

// NewStorage creates an object storage instance from configuration.
func NewStorage(cfg Config) (ObjectStorage, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Storage(cfg)
	case "memory":
		return NewMemoryStorage(cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
