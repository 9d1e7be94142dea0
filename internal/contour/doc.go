// Package contour turns a binary edge mask into ordered point sequences.
//
// Two modes share one Moore-neighbourhood walker and one visited buffer
// (the Visited slice of an edges.Workspace), so no pixel is traced twice
// within a single extraction:
//
//   - Flat mode returns independent boundary curves, open or closed.
//   - Hierarchical mode separates outer boundaries from hole boundaries and
//     arranges them in an index-based forest (parent index plus child
//     indices), so a renderer can apply even-odd fill and emit parents
//     before children.
//
// # Direction Indices
//
// The walker numbers the eight neighbours clockwise starting at East:
//
//	5 6 7
//	4 . 0
//	3 2 1
//
// After stepping in direction d the next search starts at (d+6) mod 8,
// a quarter turn to the left, which keeps the walk on the outside of the
// shape. This turn rule and the start directions (East for outer and flat
// traces, West for holes) decide which branch wins at T-junctions; changing
// them changes the output.
package contour
