package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// PreviewPath is one polyline to draw.
type PreviewPath struct {
	Points []geom.Point
	Closed bool
	Hole   bool

	// Color is an optional "#RRGGBB" stroke colour.
	Color string
}

// PreviewOptions configures RenderPreview.
type PreviewOptions struct {
	// Width and Height are the source image size the path coordinates refer to.
	Width  int
	Height int

	// Scale multiplies the canvas size. Zero means 1.
	Scale float64

	// StrokeWidth is the line width in source pixels. Lines are never
	// thinner than one canvas pixel.
	StrokeWidth float64

	// Underlay, when set, is drawn faded beneath the paths.
	Underlay image.Image

	// StrokeHex and HoleHex override the default colours for paths without
	// their own colour.
	StrokeHex string
	HoleHex   string
}

// PreviewResult contains the rendered preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Paths       int    `json:"paths"`
}

var (
	defaultStroke = color.RGBA{20, 20, 20, 255}
	defaultHole   = color.RGBA{208, 48, 48, 255}
)

// RenderPreview rasterises paths onto a white canvas (or a faded underlay)
// and returns it as base64 PNG.
func RenderPreview(paths []PreviewPath, opts PreviewOptions) (*PreviewResult, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", opts.Width, opts.Height)
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	cw := int(math.Round(float64(opts.Width) * scale))
	ch := int(math.Round(float64(opts.Height) * scale))
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if opts.Underlay != nil {
		faded := imaging.AdjustBrightness(imaging.Grayscale(opts.Underlay), 60)
		faded = imaging.Resize(faded, cw, ch, imaging.Linear)
		draw.Draw(canvas, canvas.Bounds(), faded, image.Point{}, draw.Src)
	}

	stroke := colorOr(opts.StrokeHex, defaultStroke)
	hole := colorOr(opts.HoleHex, defaultHole)

	dc := gg.NewContextForImage(canvas)
	defer dc.Close()
	dc.SetLineWidth(math.Max(opts.StrokeWidth*scale, 1))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for i, p := range paths {
		if len(p.Points) < 2 {
			continue
		}
		c := stroke
		if p.Hole {
			c = hole
		}
		if p.Color != "" {
			c = colorOr(p.Color, c)
		}
		dc.SetColor(c)

		first := p.Points[0].Scale(scale)
		dc.MoveTo(first.X, first.Y)
		for _, pt := range p.Points[1:] {
			pt = pt.Scale(scale)
			dc.LineTo(pt.X, pt.Y)
		}
		if p.Closed && len(p.Points) > 2 {
			dc.ClosePath()
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to draw path %d: %w", i, err)
		}
	}

	encoded, err := encodePNG(dc.Image())
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Width:       cw,
		Height:      ch,
		ImageBase64: encoded,
		MimeType:    "image/png",
		Paths:       len(paths),
	}, nil
}

// MaskResult contains a binary edge mask encoded as base64 PNG.
type MaskResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EdgePixels  int    `json:"edge_pixels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderMask encodes a row-major 0/255 mask as a grayscale PNG with edges
// in white.
func RenderMask(mask []uint8, width, height int) (*MaskResult, error) {
	if len(mask) != width*height {
		return nil, fmt.Errorf("mask has %d pixels, want %dx%d", len(mask), width, height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	count := 0
	for i, v := range mask {
		if v != 0 {
			img.Pix[i] = 255
			count++
		}
	}
	encoded, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return &MaskResult{
		Width:       width,
		Height:      height,
		EdgePixels:  count,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func colorOr(hex string, fallback color.RGBA) color.RGBA {
	if hex == "" {
		return fallback
	}
	c, err := parseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
