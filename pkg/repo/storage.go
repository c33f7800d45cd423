package repo

import (
	"context"

	"github.com/pkg/errors"
)

// Storage keeps menu document snapshots. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Write stores data with the given key.
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key.
	// Returns os.ErrNotExist if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns keys matching the given prefix, sorted descending (newest first).
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data for the given key, a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

const (
	StorageTypeFilesystem = "filesystem"
	StorageTypeBlob       = "blob"
	StorageTypeSQLite     = "sqlite"
)

type (
	// StorageConfig selects and configures one snapshot backend
	StorageConfig struct {
		Type       string
		Dir        string
		BucketURL  string
		BlobPrefix string
		SQLitePath string
	}
)

// NewStorage opens the backend named by cfg.Type
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", StorageTypeFilesystem:
		return NewFilesystemStorage(cfg.Dir)
	case StorageTypeBlob:
		if cfg.BucketURL == "" {
			return nil, errors.New("blob storage requires a bucket url")
		}
		return NewBlobStorage(ctx, cfg.BucketURL, cfg.BlobPrefix)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("sqlite storage requires a database path")
		}
		return NewSQLiteStorage(ctx, cfg.SQLitePath)
	default:
		return nil, errors.Errorf("unknown storage type %q", cfg.Type)
	}
}
