package commands

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/jo-hoe/perfumecatalog/internal/backend/commandstructure"
)

// CropParams describes the aspect ratio of the centered crop, e.g. 4:3.
type CropParams struct {
	AspectWidth  int
	AspectHeight int
}

func NewCropParamsFromMap(params map[string]any) (*CropParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"aspectWidth", "aspectHeight"}); err != nil {
		return nil, err
	}

	aspectWidth := commandstructure.GetIntParam(params, "aspectWidth", 0)
	aspectHeight := commandstructure.GetIntParam(params, "aspectHeight", 0)
	if aspectWidth <= 0 || aspectHeight <= 0 {
		return nil, fmt.Errorf("aspect ratio must be positive, got %d:%d", aspectWidth, aspectHeight)
	}
	return &CropParams{AspectWidth: aspectWidth, AspectHeight: aspectHeight}, nil
}

// CropCommand cuts the largest centered region with the configured aspect ratio.
type CropCommand struct {
	name   string
	params *CropParams
}

func NewCropCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCropParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &CropCommand{
		name:   "CropCommand",
		params: typedParams,
	}, nil
}

func (c *CropCommand) Name() string {
	return c.name
}

func (c *CropCommand) Execute(imageData []byte) ([]byte, error) {
	img, _, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	crop := c.cropRect(bounds)
	if crop == bounds {
		return encodePNG(img)
	}

	slog.Debug("CropCommand: center crop",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"crop_width", crop.Dx(),
		"crop_height", crop.Dy())

	cropped := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, crop.Min, draw.Src)
	return encodePNG(cropped)
}

func (c *CropCommand) cropRect(bounds image.Rectangle) image.Rectangle {
	width, height := bounds.Dx(), bounds.Dy()
	cropWidth, cropHeight := width, height

	// Compare width/height against aspectWidth/aspectHeight without floating point.
	if width*c.params.AspectHeight > height*c.params.AspectWidth {
		cropWidth = max(height*c.params.AspectWidth/c.params.AspectHeight, 1)
	} else {
		cropHeight = max(width*c.params.AspectHeight/c.params.AspectWidth, 1)
	}

	x0 := bounds.Min.X + (width-cropWidth)/2
	y0 := bounds.Min.Y + (height-cropHeight)/2
	return image.Rect(x0, y0, x0+cropWidth, y0+cropHeight)
}

func (c *CropCommand) GetParams() *CropParams {
	return c.params
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("CropCommand", NewCropCommand); err != nil {
		panic(fmt.Sprintf("failed to register CropCommand: %v", err))
	}
}
