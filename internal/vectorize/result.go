package vectorize

import (
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/contour"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
)

// Path is one simplified polyline. In hierarchical mode it also carries
// its position in the outline forest; in flat mode Parent is -1 and Level
// is 0.
type Path struct {
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed"`

	// IsHole is true for hierarchical contours at odd Level. A serializer
	// applies even-odd fill with it.
	IsHole bool `json:"is_hole"`

	Level    int   `json:"level"`
	Parent   int   `json:"parent"`
	Children []int `json:"children,omitempty"`

	// Area is the absolute enclosed area of a closed path.
	Area float64 `json:"area,omitempty"`

	// Color is the "#RRGGBB" stroke colour when colours are preserved.
	Color string `json:"color,omitempty"`

	// Pass names the pass that produced the path.
	Pass string `json:"pass"`
}

// Length returns the polyline length, closing segment included.
func (p Path) Length() float64 {
	return PathLength(p.Points, p.Closed)
}

// PassReport describes one executed or attempted pass.
type PassReport struct {
	Name      string  `json:"name"`
	Detail    float64 `json:"detail"`
	Direction string  `json:"direction"`
	Paths     int     `json:"paths"`

	// EdgePixels is the size of the edge mask the pass traced.
	EdgePixels int `json:"edge_pixels"`

	DurationMs float64 `json:"duration_ms"`

	// Error is set when the pass failed and contributed nothing.
	Error string `json:"error,omitempty"`
}

// Result is the output of one Vectorize call.
type Result struct {
	Paths []Path `json:"paths"`

	// Width and Height are the source image size. Path coordinates are in
	// this pixel grid even when the image was downscaled for processing.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Scale maps processing coordinates to source coordinates.
	Scale float64 `json:"scale"`

	Mode        string       `json:"mode"`
	Thresholds  ThresholdSet `json:"thresholds"`
	StrokeWidth float64      `json:"stroke_width"`

	Passes      []PassReport `json:"passes"`
	Directional *Analysis    `json:"directional,omitempty"`

	// Background is set when background removal ran.
	Background *imaging.BackgroundReport `json:"background,omitempty"`

	ElapsedMs float64 `json:"elapsed_ms"`
}

// pathsFromContours wraps flat contours as root paths.
func pathsFromContours(cs []contour.Contour, pass string) []Path {
	paths := make([]Path, len(cs))
	for i, c := range cs {
		paths[i] = Path{
			Points: c.Points,
			Closed: c.Closed,
			Parent: -1,
			Pass:   pass,
		}
		if c.Closed {
			paths[i].Area = geom.Area(c.Points)
		}
	}
	return paths
}

// pathsFromHierarchy wraps hierarchy entries, keeping their indices.
func pathsFromHierarchy(hs []contour.Hierarchy, pass string) []Path {
	paths := make([]Path, len(hs))
	for i, h := range hs {
		paths[i] = Path{
			Points:   h.Points,
			Closed:   true,
			IsHole:   h.IsHole,
			Level:    h.Level,
			Parent:   h.Parent,
			Children: h.Children,
			Area:     h.Area,
			Pass:     pass,
		}
	}
	return paths
}

// appendRebased appends src to dst, shifting hierarchy indices by len(dst).
func appendRebased(dst, src []Path) []Path {
	offset := len(dst)
	for _, p := range src {
		if p.Parent >= 0 {
			p.Parent += offset
		}
		if len(p.Children) > 0 {
			children := make([]int, len(p.Children))
			for i, c := range p.Children {
				children[i] = c + offset
			}
			p.Children = children
		}
		dst = append(dst, p)
	}
	return dst
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
