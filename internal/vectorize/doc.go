// Package vectorize turns raster images into simplified polylines.
//
// A single detail value in [0,1] is mapped by NewThresholds onto every
// tuning number the pipeline uses. Each pass then runs
//
//	edges.Detect -> contour.ExtractFlat / ExtractHierarchy -> Simplify
//
// against a Workspace owned by a Session. The Session chooses one of three
// schedules per call:
//
//   - single: one pass at the configured detail;
//   - multi-pass: up to ten passes at decreasing detail, results
//     concatenated;
//   - directional: a base pass, an orientation analysis of the image, and
//     up to three extra passes in reverse or diagonal scan order, run while
//     the processing budget lasts and merged with near-duplicates removed.
//
// Preprocessing (downscaling, background removal, denoising) runs once per
// call, before any pass.
//
// # Errors
//
// Vectorize fails only for empty images (ErrInvalidDimensions) and refused
// workspace allocations (ErrMemoryBudget), or when the only pass of a
// single-pass run fails. Failed passes of multi-pass and directional runs
// are logged, reported in Result.Passes and skipped.
//
// # Concurrency
//
// A Session is single-owner. Inside a pass, gradient and suppression
// stages fan out over row bands, and simplification fans out over paths.
package vectorize
