// Package storage stores uploaded list images on local disk or on
// S3-compatible object storage (AWS S3, MinIO, R2).
package storage

import (
	"context"
	"fmt"
	"io"

	"listaai/internal/config"
)

type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

func New(cfg config.StorageConfig) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.PublicURL)
	case "s3":
		return NewS3Disk(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
