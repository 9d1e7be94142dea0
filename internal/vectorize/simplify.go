package vectorize

import (
	"runtime"
	"sync"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// PreciseMinLength is the length floor for polylines from a Precise backend.
const PreciseMinLength = 1.0

// parallelPaths is the path count above which simplification fans out.
const parallelPaths = 64

// Simplify reduces pts with the Douglas-Peucker algorithm. A closed
// polyline is simplified as if its first point were repeated at the end;
// the repeat is removed again from the result. Polylines of two points or
// fewer are returned unchanged.
func Simplify(pts []geom.Point, epsilon float64, closed bool) []geom.Point {
	if len(pts) <= 2 {
		return pts
	}
	if !closed {
		return douglasPeucker(pts, epsilon)
	}

	ring := make([]geom.Point, len(pts)+1)
	copy(ring, pts)
	ring[len(pts)] = pts[0]
	out := douglasPeucker(ring, epsilon)
	return out[:len(out)-1]
}

// douglasPeucker keeps the endpoints and, recursively, every point farther
// than epsilon from the chord of its span.
func douglasPeucker(path []geom.Point, epsilon float64) []geom.Point {
	if len(path) <= 2 {
		return path
	}

	dmax := 0.0
	index := 0
	end := len(path) - 1
	for i := 1; i < end; i++ {
		d := geom.PerpendicularDistance(path[i], path[0], path[end])
		if d > dmax {
			dmax = d
			index = i
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(path[:index+1], epsilon)
		right := douglasPeucker(path[index:], epsilon)

		result := make([]geom.Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	return []geom.Point{path[0], path[end]}
}

// PathLength is the polyline length, including the closing segment when
// closed is true.
func PathLength(pts []geom.Point, closed bool) float64 {
	l := geom.PolylineLength(pts)
	if closed && len(pts) > 2 {
		l += geom.Distance(pts[len(pts)-1], pts[0])
	}
	return l
}

// simplifyPaths simplifies every path with epsilon and drops those shorter
// than minLength. Paths are processed in parallel chunks, each writing its
// own slots, and compacted in input order so the output is deterministic.
//
// Hierarchy links are rebuilt after dropping: a path whose parent was
// dropped is attached to the nearest surviving ancestor, and levels and
// hole flags are recomputed from the surviving chain. Parents must precede
// their children in paths, which ExtractHierarchy guarantees.
func simplifyPaths(paths []Path, epsilon, minLength float64) []Path {
	keep := make([]bool, len(paths))
	forChunks(len(paths), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			p := &paths[i]
			p.Points = Simplify(p.Points, epsilon, p.Closed)
			if p.Closed && len(p.Points) < 3 {
				p.Closed = false
			}
			keep[i] = len(p.Points) >= 2 && PathLength(p.Points, p.Closed) >= minLength
		}
	})
	return compact(paths, keep)
}

// compact removes paths whose keep flag is false and re-bases parent and
// child indices onto the compacted slice.
func compact(paths []Path, keep []bool) []Path {
	remap := make([]int, len(paths))
	out := make([]Path, 0, len(paths))
	for i := range paths {
		if !keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(out)
		out = append(out, paths[i])
	}

	for i := range out {
		out[i].Children = nil
	}
	for i := range out {
		p := &out[i]
		parent := p.Parent
		for parent >= 0 && remap[parent] < 0 {
			parent = paths[parent].Parent
		}
		if parent < 0 {
			p.Parent = -1
			if p.Level > 0 {
				p.Level = 0
				p.IsHole = false
			}
			continue
		}
		p.Parent = remap[parent]
		p.Level = out[p.Parent].Level + 1
		p.IsHole = p.Level%2 == 1
		out[p.Parent].Children = append(out[p.Parent].Children, i)
	}
	return out
}

// forChunks runs fn over [0, n) split into contiguous chunks, one per CPU.
// Small inputs run inline.
func forChunks(n int, fn func(i0, i1 int)) {
	workers := runtime.NumCPU()
	if n < parallelPaths || workers < 2 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for i0 := 0; i0 < n; i0 += chunk {
		i1 := min(i0+chunk, n)
		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			fn(i0, i1)
		}(i0, i1)
	}
	wg.Wait()
}
