package blobstore

import (
	"context"
	"fmt"
	"log/slog"
)

func NewBlobStore(ctx context.Context, config Config) (store BlobStore, err error) {
	switch config.Type {
	case "filesystem":
		store, err = NewFilesystemStore(config.Root, config.PublicPrefix)
	case "s3":
		store, err = NewS3Store(ctx, config.S3)
	case "memory":
		store = NewMemoryStore(config.PublicPrefix)
	default:
		return nil, fmt.Errorf("unsupported blob store type: %s", config.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s blob store: %w", config.Type, err)
	}

	slog.Info("blob store initialized", "type", config.Type)
	return store, nil
}
