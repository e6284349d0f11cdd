// Package storage provides blob storage for exported artifacts with Azure Blob Storage
// and in-memory implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JaimeStill/taxon/pkg/lifecycle"
)

// Blob describes a stored object.
type Blob struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	LastModified time.Time `json:"lastModified"`
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that prepares the backing store.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at key with the given content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at key. The caller closes it.
	// Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the blobs whose key starts with prefix, in key order.
	// A non-empty prefix must end with "/".
	List(ctx context.Context, prefix string) ([]Blob, error)
}

// New creates the storage system selected by cfg.Provider.
// The Azure client is created eagerly; the container is ensured once Start runs.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderMemory:
		return NewMemory(logger), nil
	case ProviderAzure:
		a, err := newAzure(cfg, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
}
