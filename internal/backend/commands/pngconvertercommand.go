package commands

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jo-hoe/perfumecatalog/internal/backend/commandstructure"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// PngConverterCommand normalizes raster images and SVG documents into PNG.
type PngConverterCommand struct {
	name              string
	svgFallbackWidth  int
	svgFallbackHeight int
}

func NewPngConverterCommand(params map[string]any) (commandstructure.Command, error) {
	width := commandstructure.GetIntParam(params, "svgFallbackWidth", 0)
	height := commandstructure.GetIntParam(params, "svgFallbackHeight", 0)
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("svg fallback size must not be negative, got %dx%d", width, height)
	}

	return &PngConverterCommand{
		name:              "PngConverterCommand",
		svgFallbackWidth:  width,
		svgFallbackHeight: height,
	}, nil
}

func (c *PngConverterCommand) Name() string {
	return c.name
}

func (c *PngConverterCommand) Execute(imageData []byte) ([]byte, error) {
	detected := mimetype.Detect(imageData)
	slog.Debug("PngConverterCommand: start", "input_size_bytes", len(imageData), "mime", detected.String())

	switch {
	case detected.Is("image/png"):
		return imageData, nil
	case detected.Is("image/svg+xml"):
		return c.convertSVG(imageData)
	}

	img, format, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}
	slog.Debug("PngConverterCommand: decoded raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return encodePNG(img)
}

func (c *PngConverterCommand) convertSVG(svgData []byte) ([]byte, error) {
	width, height, ok := svgPixelSize(svgData)
	if !ok {
		width, height = c.svgFallbackWidth, c.svgFallbackHeight
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("SVG has no explicit size and no fallback size is configured")
	}
	return renderSVGToPNG(svgData, width, height)
}

// svgPixelSize reads the width and height attributes of the root element.
// Values with units other than px are ignored.
func svgPixelSize(svgData []byte) (int, int, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(svgData))
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, 0, false
		}
		start, isStart := token.(xml.StartElement)
		if !isStart {
			continue
		}
		if start.Name.Local != "svg" {
			return 0, 0, false
		}

		var width, height int
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				width = parsePixels(attr.Value)
			case "height":
				height = parsePixels(attr.Value)
			}
		}
		return width, height, width > 0 && height > 0
	}
}

func parsePixels(value string) int {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return int(parsed + 0.5)
}

func renderSVGToPNG(svgData []byte, width, height int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	canvas := createTargetCanvas(width, height, color.White)
	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return encodePNG(canvas)
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("PngConverterCommand", NewPngConverterCommand); err != nil {
		panic(fmt.Sprintf("failed to register PngConverterCommand: %v", err))
	}
}
