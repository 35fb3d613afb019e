package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/perfumecatalog/internal/backend/commandstructure"
	"golang.org/x/image/draw"
)

// PixelScaleParams holds the target box. A nil dimension follows from the aspect ratio.
type PixelScaleParams struct {
	Height  *int
	Width   *int
	Upscale bool
}

func NewPixelScaleParamsFromMap(params map[string]any) (*PixelScaleParams, error) {
	_, hasHeight := params["height"]
	_, hasWidth := params["width"]
	if !hasHeight && !hasWidth {
		return nil, fmt.Errorf("at least one of 'height' or 'width' must be specified")
	}

	result := &PixelScaleParams{
		Upscale: commandstructure.GetBoolParam(params, "upscale", false),
	}
	if hasHeight {
		height := commandstructure.GetIntParam(params, "height", 0)
		if height <= 0 {
			return nil, fmt.Errorf("height must be positive, got %d", height)
		}
		result.Height = &height
	}
	if hasWidth {
		width := commandstructure.GetIntParam(params, "width", 0)
		if width <= 0 {
			return nil, fmt.Errorf("width must be positive, got %d", width)
		}
		result.Width = &width
	}
	return result, nil
}

// PixelScaleCommand resamples an image to the configured size with Catmull-Rom interpolation.
type PixelScaleCommand struct {
	name   string
	params *PixelScaleParams
}

func NewPixelScaleCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewPixelScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &PixelScaleCommand{
		name:   "PixelScaleCommand",
		params: typedParams,
	}, nil
}

func (c *PixelScaleCommand) Name() string {
	return c.name
}

func (c *PixelScaleCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	targetWidth, targetHeight := c.targetSize(bounds.Dx(), bounds.Dy())
	if !c.params.Upscale && (targetWidth > bounds.Dx() || targetHeight > bounds.Dy()) {
		slog.Debug("PixelScaleCommand: skipping upscale",
			"width", bounds.Dx(), "height", bounds.Dy(),
			"target_width", targetWidth, "target_height", targetHeight)
		return encodePNG(img)
	}

	slog.Debug("PixelScaleCommand: scaling image",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"target_width", targetWidth,
		"target_height", targetHeight)

	target := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(target, target.Bounds(), img, bounds, draw.Src, nil)
	return encodePNG(target)
}

// targetSize resolves the missing dimension from the aspect ratio. Neither side drops below one pixel.
func (c *PixelScaleCommand) targetSize(width, height int) (int, int) {
	aspectRatio := float64(width) / float64(height)

	var targetWidth, targetHeight int
	switch {
	case c.params.Width != nil && c.params.Height != nil:
		targetWidth, targetHeight = *c.params.Width, *c.params.Height
	case c.params.Width != nil:
		targetWidth = *c.params.Width
		targetHeight = int(float64(targetWidth)/aspectRatio + 0.5)
	default:
		targetHeight = *c.params.Height
		targetWidth = int(float64(targetHeight)*aspectRatio + 0.5)
	}
	return max(targetWidth, 1), max(targetHeight, 1)
}

func (c *PixelScaleCommand) GetParams() *PixelScaleParams {
	return c.params
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("PixelScaleCommand", NewPixelScaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register PixelScaleCommand: %v", err))
	}
}
