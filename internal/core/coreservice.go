package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/backend/commandstructure"
	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
)

// CoreService is the boundary every transport drives: queries, mutations and thumbnails.
type CoreService struct {
	databaseService database.DatabaseService
	blobStore       blobstore.BlobStore
	thumbnails      *commandstructure.CommandInvoker
	placeholder     []byte
}

// NewCoreService opens the configured record and blob stores.
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(ctx, config)
	if err != nil {
		return nil, err
	}

	blobStore, err := blobstore.NewBlobStore(ctx, config.BlobStore)
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	service, err := NewCoreServiceWithStores(config, databaseService, blobStore)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	return service, nil
}

// NewCoreServiceWithStores wires already opened stores, which is how tests inject fakes.
func NewCoreServiceWithStores(config *ServiceConfig, databaseService database.DatabaseService, blobStore blobstore.BlobStore) (*CoreService, error) {
	width := config.ThumbnailWidth
	if width <= 0 {
		width = defaultThumbnailWidth
	}
	commandConfigs := config.Commands
	if len(commandConfigs) == 0 {
		commandConfigs = DefaultThumbnailCommands(width)
	}

	thumbnails, err := commandstructure.NewCommandInvokerFromConfigs(commandstructure.DefaultRegistry, commandConfigs)
	if err != nil {
		return nil, fmt.Errorf("failed to build thumbnail commands: %w", err)
	}

	slog.Info("thumbnail pipeline ready", "commands", thumbnails.Len(), "width", width)

	placeholder, err := renderPlaceholder(width)
	if err != nil {
		return nil, fmt.Errorf("failed to render thumbnail placeholder: %w", err)
	}

	return &CoreService{
		databaseService: databaseService,
		blobStore:       blobStore,
		thumbnails:      thumbnails,
		placeholder:     placeholder,
	}, nil
}

// BlobStore exposes the store so the server can mount filesystem blobs.
func (service *CoreService) BlobStore() blobstore.BlobStore {
	return service.blobStore
}

// ImageURL returns the public URL of the perfume image or "" when it has none.
func (service *CoreService) ImageURL(perfume *database.Perfume) string {
	if !perfume.HasImage() {
		return ""
	}
	return service.blobStore.URLFor(*perfume.ImagePath)
}

// IsHealthy reports whether the record store is reachable.
func (service *CoreService) IsHealthy(ctx context.Context) bool {
	return service.databaseService.DoesDatabaseExist(ctx)
}

func (service *CoreService) Close() error {
	if service.databaseService == nil {
		return nil
	}
	return service.databaseService.Close()
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// IsNotFound reports whether err means the perfume does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
