package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/backend/commands"
)

// placeholderSVG draws a neutral perfume bottle. Both dimensions are filled in at render time.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[2]d" viewBox="0 0 400 300">
<rect x="0" y="0" width="400" height="300" fill="#f3f4f6"/>
<rect x="185" y="55" width="30" height="25" rx="4" fill="#9ca3af"/>
<rect x="192" y="80" width="16" height="20" fill="#d1d5db"/>
<rect x="150" y="100" width="100" height="140" rx="18" fill="#e5e7eb" stroke="#9ca3af" stroke-width="4"/>
<rect x="170" y="150" width="60" height="40" rx="6" fill="#f9fafb" stroke="#d1d5db" stroke-width="2"/>
</svg>`

func renderPlaceholder(width int) ([]byte, error) {
	converter, err := commands.NewPngConverterCommand(map[string]any{})
	if err != nil {
		return nil, err
	}
	return converter.Execute([]byte(fmt.Sprintf(placeholderSVG, width, width*3/4)))
}

// Thumbnail returns a PNG preview of the perfume image. Perfumes without a usable image get the placeholder.
func (service *CoreService) Thumbnail(ctx context.Context, id int64) ([]byte, error) {
	perfume, err := service.GetPerfume(ctx, id)
	if err != nil {
		return nil, err
	}
	if !perfume.HasImage() {
		return service.placeholder, nil
	}

	original, err := service.blobStore.Get(ctx, *perfume.ImagePath)
	if errors.Is(err, blobstore.ErrBlobNotFound) {
		slog.Warn("image referenced by perfume is missing", "id", id, "path", *perfume.ImagePath)
		return service.placeholder, nil
	}
	if err != nil {
		return nil, storageFailure("read image", err)
	}

	thumbnail, err := service.thumbnails.Execute(original)
	if err != nil {
		slog.Warn("failed to render thumbnail", "id", id, "error", err)
		return service.placeholder, nil
	}
	return thumbnail, nil
}

// Placeholder returns the PNG used for perfumes without an image.
func (service *CoreService) Placeholder() []byte {
	return service.placeholder
}
