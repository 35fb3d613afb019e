package core

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	service *CoreService
	db      *faultyDatabase
	blobs   *faultyBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := &faultyDatabase{DatabaseService: database.NewMemoryDatabase()}
	blobs := &faultyBlobStore{MemoryStore: blobstore.NewMemoryStore("/storage")}
	config := &ServiceConfig{
		Port:           8080,
		Database:       Database{Type: "memory"},
		BlobStore:      blobstore.Config{Type: "memory", PublicPrefix: "/storage"},
		ThumbnailWidth: 320,
	}

	service, err := NewCoreServiceWithStores(config, db, blobs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })
	return &testEnv{service: service, db: db, blobs: blobs}
}

// faultyDatabase injects errors into selected record store operations.
type faultyDatabase struct {
	database.DatabaseService
	createErr error
	updateErr error
	deleteErr error
	listErr   error
}

func (f *faultyDatabase) CreatePerfume(ctx context.Context, fields database.PerfumeFields, imagePath *string) (*database.Perfume, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.DatabaseService.CreatePerfume(ctx, fields, imagePath)
}

func (f *faultyDatabase) UpdatePerfume(ctx context.Context, id int64, fields database.PerfumeFields, imagePath *string) (*database.Perfume, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.DatabaseService.UpdatePerfume(ctx, id, fields, imagePath)
}

func (f *faultyDatabase) DeletePerfume(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.DatabaseService.DeletePerfume(ctx, id)
}

func (f *faultyDatabase) CountPerfumes(ctx context.Context, filter database.Filter) (int, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	return f.DatabaseService.CountPerfumes(ctx, filter)
}

// faultyBlobStore injects errors into selected blob store operations.
type faultyBlobStore struct {
	*blobstore.MemoryStore
	putErr    error
	deleteErr error
}

func (f *faultyBlobStore) Put(ctx context.Context, namespace string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.MemoryStore.Put(ctx, namespace, data)
}

func (f *faultyBlobStore) Delete(ctx context.Context, blobPath string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, blobPath)
}

func validInput() map[string]string {
	return map[string]string{
		"name":         "Chanel No. 5",
		"brand":        "Chanel",
		"description":  "The iconic floral aldehyde.",
		"price":        "150",
		"category":     "Floral",
		"sub_category": "Rose",
	}
}

func withField(input map[string]string, key, value string) map[string]string {
	copied := make(map[string]string, len(input))
	for k, v := range input {
		copied[k] = v
	}
	copied[key] = value
	return copied
}

func createPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngUpload(t *testing.T) *ImageUpload {
	t.Helper()
	return &ImageUpload{Data: createPNG(t, 40, 30), Filename: "bottle.png", ContentType: "image/png"}
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}
