package vectorize

import (
	"math"
	"sort"
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

const (
	// analysisStep is the sampling stride of the orientation histogram.
	analysisStep = 4

	// analysisMinMagnitude is the gradient magnitude a sample needs to
	// count toward the histogram.
	analysisMinMagnitude = 20.0

	// diagonalContentRatio is the share of diagonal orientations above
	// which an image has diagonal content.
	diagonalContentRatio = 0.25

	// minStraightPaths is how many long, straight base paths make an
	// image architectural.
	minStraightPaths = 3

	// lightingMinDiff is the brightness gap, in gray levels, between
	// opposite sides that indicates directional lighting.
	lightingMinDiff = 20.0

	// budgetCutoff is the share of the budget after which directional
	// work is skipped.
	budgetCutoff = 0.9

	maxDirectionalPasses = 3
	minPassBudget        = 50 * time.Millisecond

	directionalDetailFactor = 0.8
	directionalLengthFactor = 1.2
	reverseThresholdFactor  = 0.85
	diagonalThresholdFactor = 1.15
)

// Analysis describes the orientation structure of an image and the
// directional passes it warrants.
type Analysis struct {
	// Histogram counts sampled gradients in eight 45 degree bins.
	Histogram [8]int `json:"histogram"`

	DiagonalContent bool    `json:"diagonal_content"`
	DiagonalRatio   float64 `json:"diagonal_ratio"`

	// Architectural is set when the base pass found several long, nearly
	// straight paths.
	Architectural bool `json:"architectural"`
	StraightPaths int  `json:"straight_paths"`

	// Directionality in [0,1] is the coefficient of variation of the
	// histogram: 0 for evenly spread orientations.
	Directionality float64 `json:"directionality"`

	// Lighting names the brighter side ("left", "right", "top", "bottom")
	// or is empty when no directional lighting was found.
	Lighting string `json:"lighting,omitempty"`

	ReverseBenefit  float64 `json:"reverse_benefit"`
	DiagonalBenefit float64 `json:"diagonal_benefit"`

	// Scheduled lists the directional passes chosen to run, best first.
	Scheduled []string `json:"scheduled"`

	// Skipped explains why no analysis-driven passes ran, if so.
	Skipped string `json:"skipped,omitempty"`
}

// analyze builds the Analysis for a width x height gray image and the
// paths of its base pass.
func analyze(gray []uint8, width, height int, base []Path) Analysis {
	var a Analysis

	total := 0
	for y := 2; y < height-2; y += analysisStep {
		for x := 2; x < width-2; x += analysisStep {
			gx, gy := edges.GradientAt(gray, width, height, x, y)
			if math.Hypot(gx, gy) <= analysisMinMagnitude {
				continue
			}
			angle := math.Atan2(gy, gx)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			bin := min(int(angle/(math.Pi/4)), 7)
			a.Histogram[bin]++
			total++
		}
	}

	if total > 0 {
		diagonal := a.Histogram[1] + a.Histogram[3] + a.Histogram[5] + a.Histogram[7]
		a.DiagonalRatio = float64(diagonal) / float64(total)
		a.DiagonalContent = a.DiagonalRatio > diagonalContentRatio

		counts := make([]float64, len(a.Histogram))
		for i, c := range a.Histogram {
			counts[i] = float64(c)
		}
		mean, std := stat.PopMeanStdDev(counts, nil)
		if mean > 0 {
			a.Directionality = math.Min(std/mean, 1)
		}
	}

	a.StraightPaths = countStraightPaths(base)
	a.Architectural = a.StraightPaths >= minStraightPaths
	a.Lighting = lightingDirection(gray, width, height)

	a.ReverseBenefit = 0.4
	if a.Lighting != "" {
		a.ReverseBenefit = 0.8
	}
	a.DiagonalBenefit = 0.3
	if a.DiagonalContent {
		a.DiagonalBenefit = 0.9
	}
	if a.Architectural {
		a.DiagonalBenefit *= 1.2
	}
	if a.Directionality > 0.6 {
		a.ReverseBenefit *= 0.7
		a.DiagonalBenefit *= 0.7
	}
	return a
}

// countStraightPaths counts paths of at least four points, longer than 50
// pixels, whose endpoint distance is over 80% of their length.
func countStraightPaths(paths []Path) int {
	n := 0
	for _, p := range paths {
		if len(p.Points) < 4 {
			continue
		}
		total := p.Length()
		if total <= 50 {
			continue
		}
		first, last := p.Points[0], p.Points[len(p.Points)-1]
		if math.Hypot(last.X-first.X, last.Y-first.Y)/total > 0.8 {
			n++
		}
	}
	return n
}

// lightingDirection compares mean brightness of the left and right
// quarter bands (middle half of the rows) and of the top and bottom
// quarter bands (middle half of the columns). A side wins when it is over
// 20 levels brighter than its opposite and that gap is 1.5x the other
// axis' gap.
func lightingDirection(gray []uint8, width, height int) string {
	qw, qh := width/4, height/4
	if qw == 0 || qh == 0 {
		return ""
	}

	left := regionMean(gray, width, 0, height/2-qh, qw, height/2+qh)
	right := regionMean(gray, width, width-qw, height/2-qh, width, height/2+qh)
	top := regionMean(gray, width, width/2-qw, 0, width/2+qw, qh)
	bottom := regionMean(gray, width, width/2-qw, height-qh, width/2+qw, height)

	lr := math.Abs(left - right)
	tb := math.Abs(top - bottom)
	switch {
	case lr > lightingMinDiff && lr > 1.5*tb:
		if left > right {
			return "left"
		}
		return "right"
	case tb > lightingMinDiff && tb > 1.5*lr:
		if top > bottom {
			return "top"
		}
		return "bottom"
	}
	return ""
}

// regionMean averages gray over [x0,x1) x [y0,y1).
func regionMean(gray []uint8, width, x0, y0, x1, y1 int) float64 {
	sum, n := 0, 0
	for y := y0; y < y1; y++ {
		row := gray[y*width:]
		for x := x0; x < x1; x++ {
			sum += int(row[x])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// plannedPass is a directional pass chosen by schedule.
type plannedPass struct {
	order   edges.ScanOrder
	benefit float64
}

// schedule picks directional passes for the remaining budget: enabled
// passes whose benefit reaches threshold, best first, at most
// min(3, remaining / max(remaining/4, 50ms)).
func schedule(a Analysis, cfg Config, remaining time.Duration) []plannedPass {
	var candidates []plannedPass
	if cfg.ReversePass {
		candidates = append(candidates, plannedPass{edges.ScanReverse, a.ReverseBenefit})
	}
	if cfg.DiagonalPass {
		candidates = append(candidates,
			plannedPass{edges.ScanDiagonalNW, a.DiagonalBenefit},
			plannedPass{edges.ScanDiagonalNE, a.DiagonalBenefit})
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if c.benefit >= cfg.DirectionalStrengthThreshold {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].benefit > kept[j].benefit
	})

	if remaining <= 0 {
		return nil
	}
	perPass := max(remaining/4, minPassBudget)
	limit := min(int(remaining/perPass), maxDirectionalPasses)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// directionalPass builds the pass for order from the configured detail.
// All directional passes run at 0.8x detail and need 1.2x the usual
// length. Reverse blurs more and lowers thresholds; diagonals blur less,
// raise thresholds and keep only diagonally oriented paths.
func directionalPass(order edges.ScanOrder, detail float64, width, height int) pass {
	t := NewThresholds(detail*directionalDetailFactor, width, height)
	p := pass{
		name:       order.String(),
		thresholds: t,
		edge:       t.EdgeOptions(order),
		minLength:  t.MinStrokeLength * directionalLengthFactor,
	}

	var factor float64
	if order.Diagonal() {
		p.edge.Sigma = 0.8 + 1.2*detail
		factor = diagonalThresholdFactor
		p.keep = diagonalOriented
	} else {
		p.edge.Sigma = 1.2 + 0.8*detail
		factor = reverseThresholdFactor
	}
	p.edge.Low *= factor
	p.edge.High *= factor
	return p
}

// diagonalOriented reports whether a path runs diagonally: the shorter of
// its x and y extents is over 40% of the longer. Open paths are measured
// between endpoints, closed paths by their bounding box.
func diagonalOriented(p Path) bool {
	var dx, dy float64
	if p.Closed {
		b := geom.Bounds(p.Points)
		dx, dy = b.Width(), b.Height()
	} else {
		first, last := p.Points[0], p.Points[len(p.Points)-1]
		dx, dy = math.Abs(last.X-first.X), math.Abs(last.Y-first.Y)
	}
	hi := math.Max(dx, dy)
	if hi < 1 {
		return false
	}
	return math.Min(dx, dy)/hi > 0.4
}

// longestPass is the duration of the slowest completed pass. A directional
// pass costs about as much as a base pass, so it predicts the first one.
func longestPass(reports []PassReport) time.Duration {
	var longest float64
	for _, rep := range reports {
		longest = math.Max(longest, rep.DurationMs)
	}
	return time.Duration(longest * float64(time.Millisecond))
}

// directional runs the base pass, then the scheduled directional passes
// while budget remains, and merges everything.
func (r *run) directional() []Path {
	var base []Path
	if r.cfg.Multipass && r.cfg.PassCount > 1 {
		base = r.multipass()
	} else {
		paths, _, err := r.execute(standardPass("standard", r.result.Thresholds))
		if err == nil {
			base = paths
		}
	}

	budget := r.cfg.budget()
	elapsed := time.Since(r.start)
	if float64(elapsed) >= budgetCutoff*float64(budget) {
		r.result.Directional = &Analysis{Skipped: "budget"}
		r.log.WithFields(logrus.Fields{
			"elapsed_ms": durationMs(elapsed),
			"budget_ms":  r.cfg.MaxProcessingTimeMs,
		}).Info("Skipping directional passes, budget nearly used")
		return base
	}

	w, h := r.s.ws.Width, r.s.ws.Height
	a := analyze(r.gray, w, h, base)
	plan := schedule(a, r.cfg, budget-time.Since(r.start))

	r.log.WithFields(logrus.Fields{
		"diagonal":       a.DiagonalContent,
		"architectural":  a.Architectural,
		"directionality": a.Directionality,
		"lighting":       a.Lighting,
		"scheduled":      len(plan),
	}).Debug("Directional analysis")

	var extra [][]Path
	last := longestPass(r.result.Passes)
	for _, planned := range plan {
		elapsed := time.Since(r.start)
		if elapsed >= budget || elapsed+last > budget {
			a.Skipped = "budget"
			r.log.WithField("elapsed_ms", durationMs(elapsed)).Info("Directional budget exhausted")
			break
		}
		a.Scheduled = append(a.Scheduled, planned.order.String())

		paths, report, err := r.execute(directionalPass(planned.order, r.cfg.Detail, w, h))
		last = time.Duration(report.DurationMs * float64(time.Millisecond))
		if err != nil || len(paths) == 0 {
			continue
		}
		extra = append(extra, paths)
	}
	r.result.Directional = &a

	if len(extra) == 0 {
		return base
	}
	merged := mergePaths(base, extra)
	r.log.WithFields(logrus.Fields{
		"base":   len(base),
		"passes": len(extra),
		"paths":  len(merged),
	}).Info("Directional merge complete")
	return merged
}
