package contour

import (
	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// MaxTracePoints caps a single trace. It bounds worst-case latency on
// pathological masks.
const MaxTracePoints = 10_000

// Start directions for the walker.
const (
	dirEast = 0
	dirWest = 4
)

// moore lists neighbour offsets by direction index.
var moore = [8][2]int{
	{1, 0},   // 0 E
	{1, 1},   // 1 SE
	{0, 1},   // 2 S
	{-1, 1},  // 3 SW
	{-1, 0},  // 4 W
	{-1, -1}, // 5 NW
	{0, -1},  // 6 N
	{1, -1},  // 7 NE
}

// grid is a read-only view of a mask plus the workspace flags the walker
// updates.
type grid struct {
	mask    []uint8
	visited []bool
	width   int
	height  int
}

func newGrid(ws *edges.Workspace, mask []uint8) *grid {
	return &grid{mask: mask, visited: ws.Visited, width: ws.Width, height: ws.Height}
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// on reports whether (x, y) is an in-bounds foreground pixel.
func (g *grid) on(x, y int) bool {
	return g.inside(x, y) && g.mask[y*g.width+x] != 0
}

// backgroundNeighbours counts the 8-neighbours of (x, y) that are
// background. Out-of-bounds neighbours count as background.
func (g *grid) backgroundNeighbours(x, y int) int {
	count := 0
	for _, d := range moore {
		if !g.on(x+d[0], y+d[1]) {
			count++
		}
	}
	return count
}

// boundary reports whether a foreground pixel touches the background or
// the image border. Interior pixels of solid regions are never boundaries,
// which keeps the walker from filling regions in.
func (g *grid) boundary(x, y int) bool {
	return g.backgroundNeighbours(x, y) > 0
}

// relaxedBoundary accepts pixels with some but not all background
// neighbours. Isolated specks are rejected.
func (g *grid) relaxedBoundary(x, y int) bool {
	n := g.backgroundNeighbours(x, y)
	return n > 0 && n < 8
}

// walk follows a boundary from (sx, sy) and returns the traced points in
// buf (reused) plus whether the walk returned to its start.
//
// The start pixel is marked visited. At each step the eight directions are
// searched from (prev+6) mod 8; the first neighbour that is either the start
// pixel (once more than two points exist) or an unvisited foreground pixel
// accepted by isBoundary is taken.
func (g *grid) walk(sx, sy, startDir int, isBoundary func(x, y int) bool, buf []geom.Point) ([]geom.Point, bool) {
	buf = buf[:0]
	g.visited[sy*g.width+sx] = true
	buf = append(buf, geom.Pt(float64(sx), float64(sy)))

	x, y, prev := sx, sy, startDir
	for len(buf) < MaxTracePoints {
		moved := false
		for k := 0; k < 8; k++ {
			d := (prev + 6 + k) % 8
			nx, ny := x+moore[d][0], y+moore[d][1]
			if !g.on(nx, ny) {
				continue
			}
			if nx == sx && ny == sy {
				if len(buf) > 2 {
					return buf, true
				}
				continue
			}
			i := ny*g.width + nx
			if g.visited[i] || !isBoundary(nx, ny) {
				continue
			}
			g.visited[i] = true
			buf = append(buf, geom.Pt(float64(nx), float64(ny)))
			x, y, prev = nx, ny, d
			moved = true
			break
		}
		if !moved {
			return buf, false
		}
	}
	return buf, false
}
