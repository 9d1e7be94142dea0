package contour

import (
	"math"
	"sort"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// holeKeepFactor is how many times larger than a small hole its container
// must be for the hole to survive the area filter.
const holeKeepFactor = 10

// Hierarchy is one contour of a nested outline forest.
type Hierarchy struct {
	Points []geom.Point

	// Area is the absolute shoelace area.
	Area float64

	// IsHole is true for contours at odd nesting depth.
	IsHole bool

	// Parent is the index of the smallest containing contour, or -1.
	Parent int

	// Children holds indices of contours whose parent is this one.
	Children []int

	// Level is the nesting depth; roots are level 0.
	Level int

	// Clockwise reports the winding in image coordinates.
	Clockwise bool
}

type candidate struct {
	points    []geom.Point
	area      float64
	clockwise bool
	hole      bool // trace-time guess
}

// ExtractHierarchy traces outer and hole boundaries and nests them.
//
// # Algorithm
//
//  1. Scan the mask in the given order. A foreground pixel whose left
//     neighbour is background starts an outer trace (heading East, strict
//     boundary test). Otherwise, a foreground pixel whose right neighbour is
//     background starts a hole trace (heading West, relaxed boundary test).
//  2. Wrap each trace with its absolute area and winding.
//  3. Drop contours smaller than minAreaRatio x image area, unless the
//     contour was traced as a hole and its first point lies inside another
//     contour at least ten times larger.
//  4. Sort by area, largest first. Each contour's parent is the smallest
//     earlier contour containing its first point (ray casting).
//  5. Set IsHole from nesting parity, replacing the trace-time guess.
//
// The returned slice is ordered by descending area, so parents always come
// before their children.
func ExtractHierarchy(ws *edges.Workspace, mask []uint8, order edges.ScanOrder, minAreaRatio float64) []Hierarchy {
	ws.ClearVisited()
	g := newGrid(ws, mask)

	var traced []candidate
	order.Walk(g.width, g.height, func(x, y int) bool {
		i := y*g.width + x
		if mask[i] == 0 || g.visited[i] {
			return true
		}

		switch {
		case !g.on(x-1, y):
			ws.Points, _ = g.walk(x, y, dirEast, g.boundary, ws.Points)
			traced = appendCandidate(traced, ws.Points, false)
		case !g.on(x+1, y):
			ws.Points, _ = g.walk(x, y, dirWest, g.relaxedBoundary, ws.Points)
			traced = appendCandidate(traced, ws.Points, true)
		}
		return true
	})
	ws.Points = ws.Points[:0]

	minArea := minAreaRatio * float64(g.width*g.height)
	kept := filterByArea(traced, minArea)
	return buildForest(kept)
}

func appendCandidate(list []candidate, raw []geom.Point, hole bool) []candidate {
	pts := cleanTrace(raw)
	if len(pts) < 3 {
		return list
	}
	signed := geom.SignedArea(pts)
	return append(list, candidate{
		points:    pts,
		area:      math.Abs(signed),
		clockwise: signed > 0,
		hole:      hole,
	})
}

// filterByArea applies the minimum-area rule while protecting small holes
// inside much larger contours.
func filterByArea(all []candidate, minArea float64) []candidate {
	kept := make([]candidate, 0, len(all))
	for i, c := range all {
		if c.area >= minArea {
			kept = append(kept, c)
			continue
		}
		if !c.hole {
			continue
		}
		for j, other := range all {
			if j == i || other.area < holeKeepFactor*c.area {
				continue
			}
			if geom.ContainsPoint(other.points, c.points[0]) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

// buildForest sorts contours by area and links each to its smallest
// container.
func buildForest(cands []candidate) []Hierarchy {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].area > cands[j].area
	})

	out := make([]Hierarchy, len(cands))
	for i, c := range cands {
		out[i] = Hierarchy{
			Points:    c.points,
			Area:      c.area,
			IsHole:    c.hole,
			Parent:    -1,
			Clockwise: c.clockwise,
		}
	}

	for j := 1; j < len(out); j++ {
		start := out[j].Points[0]
		for i := j - 1; i >= 0; i-- {
			if geom.ContainsPoint(out[i].Points, start) {
				out[j].Parent = i
				out[j].Level = out[i].Level + 1
				out[i].Children = append(out[i].Children, j)
				break
			}
		}
	}

	for i := range out {
		out[i].IsHole = out[i].Level%2 == 1
	}
	return out
}
