package vectorize

import (
	"fmt"
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/contour"
	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
	"github.com/sirupsen/logrus"
)

// pass describes one run of detect, trace and simplify.
type pass struct {
	name       string
	thresholds ThresholdSet
	edge       edges.Options
	minLength  float64

	// keep, when set, filters paths after simplification.
	keep func(Path) bool
}

// standardPass returns the pass for thresholds t in standard scan order.
func standardPass(name string, t ThresholdSet) pass {
	return pass{
		name:       name,
		thresholds: t,
		edge:       t.EdgeOptions(edges.ScanStandard),
		minLength:  t.MinStrokeLength,
	}
}

// execute runs p and reports it. A failed pass returns no paths and a
// report carrying the error.
func (r *run) execute(p pass) ([]Path, PassReport, error) {
	started := time.Now()
	paths, edgePixels, err := r.trace(p)
	elapsed := time.Since(started)

	report := PassReport{
		Name:       p.name,
		Detail:     p.thresholds.Detail,
		Direction:  p.edge.Order.String(),
		Paths:      len(paths),
		EdgePixels: edgePixels,
		DurationMs: durationMs(elapsed),
	}
	fields := logrus.Fields{
		"pass":       p.name,
		"detail":     p.thresholds.Detail,
		"direction":  report.Direction,
		"elapsed_ms": report.DurationMs,
	}
	if err != nil {
		report.Error = err.Error()
		r.log.WithFields(fields).WithError(err).Warn("Pass failed")
	} else {
		fields["paths"] = len(paths)
		fields["edge_pixels"] = edgePixels
		r.log.WithFields(fields).Debug("Pass complete")
	}
	r.result.Passes = append(r.result.Passes, report)
	return paths, report, err
}

// trace is the body of a pass. A panic in any stage is turned into an
// error so one bad pass cannot take down a multi-pass run.
func (r *run) trace(p pass) (paths []Path, edgePixels int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			paths = nil
			err = fmt.Errorf("pass %s: internal error: %v", p.name, rec)
		}
	}()

	if r.hook != nil {
		if err := r.hook(p); err != nil {
			return nil, 0, fmt.Errorf("pass %s: %w", p.name, err)
		}
	}

	ws := r.s.ws
	mask, err := edges.Detect(ws, r.gray, p.edge)
	if err != nil {
		return nil, 0, fmt.Errorf("pass %s: %w", p.name, err)
	}
	edgePixels = edges.CountEdges(mask)
	if edgePixels == 0 {
		return nil, 0, nil
	}

	switch r.cfg.Mode {
	case contour.ModeHierarchical:
		hs := contour.ExtractHierarchy(ws, mask, p.edge.Order, r.cfg.MinAreaRatio)
		paths = pathsFromHierarchy(hs, p.name)
	default:
		cs := contour.ExtractFlat(ws, mask, p.edge.Order)
		paths = pathsFromContours(cs, p.name)
	}

	paths = simplifyPaths(paths, p.thresholds.Epsilon, p.minLength)
	if p.keep != nil {
		keep := make([]bool, len(paths))
		for i := range paths {
			keep[i] = p.keep(paths[i])
		}
		paths = compact(paths, keep)
	}
	return paths, edgePixels, nil
}

// single runs one standard pass at the configured detail.
func (r *run) single() ([]Path, error) {
	paths, _, err := r.execute(standardPass("standard", r.result.Thresholds))
	return paths, err
}

// passMultiplier is the detail multiplier for multi-pass index p:
// 1.0, 0.8, 0.6, then 0.05 less per pass down to 0.1.
func passMultiplier(p int) float64 {
	switch p {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.6
	default:
		return max(0.4-0.05*float64(p-3), 0.1)
	}
}

// passDetail returns the detail for multi-pass index p. Pass 0 always runs
// at the base detail. Later passes lift a near-zero base to 0.1 so they
// still differ from the first, and never drop below 0.1.
func passDetail(base float64, p int) float64 {
	if p == 0 {
		return base
	}
	if base < 0.01 {
		base = 0.1
	}
	return max(0.1, min(base*passMultiplier(p), 1.0))
}

// multipass runs PassCount standard passes at decreasing detail and
// concatenates their paths. Failed passes are skipped.
func (r *run) multipass() []Path {
	w, h := r.s.ws.Width, r.s.ws.Height
	var all []Path
	for p := 0; p < r.cfg.PassCount; p++ {
		t := NewThresholds(passDetail(r.cfg.Detail, p), w, h)
		paths, _, err := r.execute(standardPass(fmt.Sprintf("pass-%d", p+1), t))
		if err != nil {
			continue
		}
		all = appendRebased(all, paths)
	}
	r.log.WithFields(logrus.Fields{
		"passes": r.cfg.PassCount,
		"paths":  len(all),
	}).Info("Multi-pass complete")
	return all
}

// backend runs the configured Backend as a single pass through the shared
// simplifier.
func (r *run) backend() ([]Path, error) {
	b := r.cfg.Backend
	t := r.result.Thresholds
	started := time.Now()

	polylines, err := b.Trace(r.img, t)
	report := PassReport{Name: b.Name(), Detail: t.Detail, Direction: "backend"}
	if err != nil {
		report.Error = err.Error()
		report.DurationMs = durationMs(time.Since(started))
		r.result.Passes = append(r.result.Passes, report)
		return nil, fmt.Errorf("backend %s: %w", b.Name(), err)
	}

	minLength := t.MinStrokeLength
	if b.Precise() {
		minLength = PreciseMinLength
	}

	paths := make([]Path, 0, len(polylines))
	for _, pl := range polylines {
		pts := make([]geom.Point, len(pl.Points))
		copy(pts, pl.Points)
		paths = append(paths, Path{Points: pts, Closed: pl.Closed, Parent: -1, Pass: b.Name()})
	}
	paths = simplifyPaths(paths, t.Epsilon, minLength)

	report.Paths = len(paths)
	report.DurationMs = durationMs(time.Since(started))
	r.result.Passes = append(r.result.Passes, report)
	r.log.WithFields(logrus.Fields{
		"backend": b.Name(),
		"paths":   len(paths),
	}).Debug("Backend pass complete")
	return paths, nil
}
