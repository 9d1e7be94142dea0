package contour

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// Mode selects how the mask is traced.
type Mode int

const (
	// ModeFlat traces independent boundary curves.
	ModeFlat Mode = iota
	// ModeHierarchical traces outer and hole boundaries into a forest.
	ModeHierarchical
)

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	if m == ModeHierarchical {
		return "hierarchical"
	}
	return "flat"
}

// ParseMode converts a mode name to a Mode. The empty string means flat.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return ModeFlat, nil
	case "hierarchical", "hierarchy", "nested":
		return ModeHierarchical, nil
	default:
		return ModeFlat, fmt.Errorf("unknown contour mode %q (want flat or hierarchical)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseMode.
func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Contour is a traced boundary curve. Closed contours do not repeat their
// first point at the end.
type Contour struct {
	Points []geom.Point
	Closed bool
}

// ExtractFlat traces every boundary in mask as an independent contour.
//
// Start pixels are taken in the given scan order from unvisited foreground
// pixels that lie on a boundary (at least one background neighbour, or on
// the image border). Each trace starts heading East. mask must hold
// ws.Width*ws.Height bytes; ws.Visited is cleared first and left marked.
//
// Traces are cleaned of near-duplicate points and back-and-forth spikes.
// Traces that end up with fewer than two points are discarded.
//
// Parameters:
//   - ws: Workspace holding the image size and the visited flags.
//   - mask: Edge mask, nonzero for edge pixels.
//   - order: The order start pixels are visited in.
//
// Returns:
//   - []Contour: Traced contours in discovery order. Closed is set when the
//     walk returned to its start.
func ExtractFlat(ws *edges.Workspace, mask []uint8, order edges.ScanOrder) []Contour {
	ws.ClearVisited()
	g := newGrid(ws, mask)

	var contours []Contour
	order.Walk(g.width, g.height, func(x, y int) bool {
		i := y*g.width + x
		if mask[i] == 0 || g.visited[i] || !g.boundary(x, y) {
			return true
		}
		var closed bool
		ws.Points, closed = g.walk(x, y, dirEast, g.boundary, ws.Points)
		pts := cleanTrace(ws.Points)
		if len(pts) >= 2 {
			contours = append(contours, Contour{Points: pts, Closed: closed})
		}
		return true
	})
	ws.Points = ws.Points[:0]
	return contours
}
