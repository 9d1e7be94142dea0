package vectorize

import (
	"math"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

const (
	// mergeMinLength drops fragments before deduplication.
	mergeMinLength = 5.0

	// mergeTolerance is the bounding box and endpoint tolerance in pixels.
	mergeTolerance = 8.0

	// mergeCellSize is the spatial index cell edge in pixels.
	mergeCellSize = 50.0

	// Paths whose length ratio lies outside [minLengthRatio, 1/minLengthRatio]
	// are never duplicates.
	minLengthRatio = 0.7
)

// mergeSummary is the cached geometry of one path.
type mergeSummary struct {
	bounds      geom.Rect
	length      float64
	first, last geom.Point
}

func summarize(p Path) mergeSummary {
	return mergeSummary{
		bounds: geom.Bounds(p.Points),
		length: p.Length(),
		first:  p.Points[0],
		last:   p.Points[len(p.Points)-1],
	}
}

// similar reports whether a and b trace the same stroke: overlapping
// boxes, comparable lengths, and matching endpoints in either direction.
func (a mergeSummary) similar(b mergeSummary, tol float64) bool {
	if !a.bounds.Overlaps(b.bounds, tol) {
		return false
	}
	if b.length == 0 {
		return false
	}
	ratio := a.length / b.length
	if ratio < minLengthRatio || ratio > 1/minLengthRatio {
		return false
	}
	forward := geom.Distance(a.first, b.first) <= tol && geom.Distance(a.last, b.last) <= tol
	reverse := geom.Distance(a.first, b.last) <= tol && geom.Distance(a.last, b.first) <= tol
	return forward || reverse
}

// spatialIndex buckets path indices by the grid cells their bounding boxes
// touch.
type spatialIndex struct {
	cell  float64
	cells map[[2]int][]int
}

func newSpatialIndex(cell float64) *spatialIndex {
	return &spatialIndex{cell: cell, cells: make(map[[2]int][]int)}
}

func (s *spatialIndex) span(r geom.Rect) (x0, y0, x1, y1 int) {
	return int(math.Floor(r.MinX / s.cell)), int(math.Floor(r.MinY / s.cell)),
		int(math.Floor(r.MaxX / s.cell)), int(math.Floor(r.MaxY / s.cell))
}

func (s *spatialIndex) insert(id int, r geom.Rect) {
	x0, y0, x1, y1 := s.span(r)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			key := [2]int{cx, cy}
			s.cells[key] = append(s.cells[key], id)
		}
	}
}

// query calls fn once per indexed id whose cells meet r grown by tol,
// stopping when fn returns true.
func (s *spatialIndex) query(r geom.Rect, tol float64, fn func(id int) bool) bool {
	grown := geom.Rect{MinX: r.MinX - tol, MinY: r.MinY - tol, MaxX: r.MaxX + tol, MaxY: r.MaxY + tol}
	x0, y0, x1, y1 := s.span(grown)
	seen := make(map[int]struct{})
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, id := range s.cells[[2]int{cx, cy}] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				if fn(id) {
					return true
				}
			}
		}
	}
	return false
}

// mergePaths concatenates base and every directional set, drops paths
// shorter than 5 pixels, and removes near-duplicates of earlier kept
// paths. Earlier paths win, so base paths are preferred. Hierarchy links
// are re-based onto the merged slice.
func mergePaths(base []Path, sets [][]Path) []Path {
	all := appendRebased(nil, base)
	for _, set := range sets {
		all = appendRebased(all, set)
	}

	keep := make([]bool, len(all))
	kept := make([]mergeSummary, 0, len(all))
	index := newSpatialIndex(mergeCellSize)
	for i, p := range all {
		if len(p.Points) < 2 {
			continue
		}
		sum := summarize(p)
		if sum.length < mergeMinLength {
			continue
		}
		dup := index.query(sum.bounds, mergeTolerance, func(id int) bool {
			return sum.similar(kept[id], mergeTolerance)
		})
		if dup {
			continue
		}
		index.insert(len(kept), sum.bounds)
		kept = append(kept, sum)
		keep[i] = true
	}
	return compact(all, keep)
}
