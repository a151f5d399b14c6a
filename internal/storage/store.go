package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adboard/api/internal/config"
)

const (
	CategoryUsers = "users"
	CategoryAds   = "ads"
)

var ErrNotFound = errors.New("blob not found")

// BlobStore holds raw image bytes. Write returns the public relative
// path of the stored blob ("/images/{category}/{filename}"); Read,
// Delete and ModTime take that same path back. Delete of a missing
// blob is not an error.
type BlobStore interface {
	Write(ctx context.Context, category, filename string, data []byte) (string, error)
	Read(ctx context.Context, relPath string) ([]byte, error)
	Delete(ctx context.Context, relPath string) error
	List(ctx context.Context) ([]string, error)
	ModTime(ctx context.Context, relPath string) (time.Time, error)
	EnsureDirs(ctx context.Context) error
}

func New(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg)
	case "s3":
		return NewObjectStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
