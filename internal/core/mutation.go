package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
)

// ImageNamespace is the blob store folder perfume images are written to.
const ImageNamespace = "perfumes"

func (service *CoreService) GetPerfume(ctx context.Context, id int64) (*database.Perfume, error) {
	perfume, err := service.databaseService.GetPerfume(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageFailure("get perfume", err)
	}
	return perfume, nil
}

// CreatePerfume validates the input, stores the optional image and inserts the record.
func (service *CoreService) CreatePerfume(ctx context.Context, raw map[string]string, upload *ImageUpload) (*database.Perfume, error) {
	fields, err := ValidatePerfume(raw, upload)
	if err != nil {
		return nil, err
	}

	imagePath, err := service.storeImage(ctx, upload)
	if err != nil {
		return nil, err
	}

	perfume, err := service.databaseService.CreatePerfume(ctx, fields, imagePath)
	if err != nil {
		service.discardBlob(ctx, imagePath, "insert failed")
		return nil, storageFailure("create perfume", err)
	}

	slog.Info("perfume created", "id", perfume.ID, "has_image", perfume.HasImage())
	return perfume, nil
}

// UpdatePerfume replaces the editable fields. A new image supersedes the old one, which is
// removed only after the record points at the new blob.
func (service *CoreService) UpdatePerfume(ctx context.Context, id int64, raw map[string]string, upload *ImageUpload) (*database.Perfume, error) {
	existing, err := service.GetPerfume(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := ValidatePerfume(raw, upload)
	if err != nil {
		return nil, err
	}

	imagePath, err := service.storeImage(ctx, upload)
	if err != nil {
		return nil, err
	}

	perfume, err := service.databaseService.UpdatePerfume(ctx, id, fields, imagePath)
	if err != nil {
		service.discardBlob(ctx, imagePath, "update failed")
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageFailure("update perfume", err)
	}

	if imagePath != nil && existing.HasImage() && *existing.ImagePath != *imagePath {
		service.discardBlob(ctx, existing.ImagePath, "superseded")
	}

	slog.Info("perfume updated", "id", perfume.ID, "image_replaced", imagePath != nil)
	return perfume, nil
}

// DeletePerfume removes the owned image, if any, and then the record.
func (service *CoreService) DeletePerfume(ctx context.Context, id int64) error {
	existing, err := service.GetPerfume(ctx, id)
	if err != nil {
		return err
	}

	if existing.HasImage() {
		service.discardBlob(ctx, existing.ImagePath, "perfume deleted")
	}

	if err := service.databaseService.DeletePerfume(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return storageFailure("delete perfume", err)
	}

	slog.Info("perfume deleted", "id", id)
	return nil
}

func (service *CoreService) storeImage(ctx context.Context, upload *ImageUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	blobPath, err := service.blobStore.Put(ctx, ImageNamespace, upload.Data)
	if err != nil {
		return nil, storageFailure("store image", err)
	}
	return &blobPath, nil
}

// discardBlob deletes a blob and only logs failures.
func (service *CoreService) discardBlob(ctx context.Context, blobPath *string, reason string) {
	if blobPath == nil || *blobPath == "" {
		return
	}
	removed, err := service.blobStore.Delete(ctx, *blobPath)
	if err != nil {
		slog.Warn("failed to delete image", "path", *blobPath, "reason", reason, "error", err)
		return
	}
	if !removed {
		slog.Warn("image already missing", "path", *blobPath, "reason", reason)
	}
}
