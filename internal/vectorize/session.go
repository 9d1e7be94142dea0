package vectorize

import (
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
	"github.com/ironsheep/image-vectorize-mcp/internal/logger"
	"github.com/sirupsen/logrus"
)

// Session owns the reusable detection workspace for a sequence of
// Vectorize calls. A Session is not safe for concurrent use; callers that
// process images concurrently create one Session per goroutine.
type Session struct {
	ws     *edges.Workspace
	memory MemoryChecker
	log    *logrus.Entry
}

// NewSession returns a Session that asks memory before growing its
// workspace. A nil memory admits everything; a nil log uses the process
// logger.
func NewSession(memory MemoryChecker, log *logrus.Entry) *Session {
	if memory == nil {
		memory = Unlimited
	}
	if log == nil {
		log = logrus.NewEntry(logger.Logger)
	}
	return &Session{memory: memory, log: log.WithField("component", "vectorize")}
}

// Workspace returns the current workspace, or nil before the first call.
func (s *Session) Workspace() *edges.Workspace {
	return s.ws
}

// prepare admits and sizes the workspace for a width x height image.
func (s *Session) prepare(width, height int) error {
	need := edges.EstimateBytes(width, height)
	if err := s.memory.CheckMemoryForOperation(need, "edge detection workspace"); err != nil {
		return fmt.Errorf("workspace for %dx%d: %w", width, height, err)
	}

	if s.ws == nil {
		ws, err := edges.NewWorkspace(width, height)
		if err != nil {
			return err
		}
		s.ws = ws
		s.log.WithField("capacity", ws.Capacity()).Debug("Workspace allocated")
		return nil
	}
	before := s.ws.Capacity()
	if err := s.ws.Resize(width, height); err != nil {
		return err
	}
	if after := s.ws.Capacity(); after != before {
		s.log.WithFields(logrus.Fields{
			"from": before,
			"to":   after,
		}).Debug("Workspace grown")
	}
	return nil
}

// Vectorize converts img to simplified polylines according to cfg.
//
// Parameters:
//   - img: Source image in any colour model. It is not modified.
//   - cfg: Settings. Out-of-range values are clamped and zero budgets
//     replaced with defaults.
//
// Returns:
//   - *Result: Paths, per-pass reports, thresholds and stroke width. An
//     image without edges yields an empty, non-nil Paths slice.
//   - error: Non-nil only when no result could be produced.
//
// Multi-pass and directional runs log failed passes, record them in
// Result.Passes, and continue.
//
// Path coordinates are in img's pixel grid with the origin at
// img.Bounds().Min.
//
// # Errors
//
//   - Returns ErrInvalidDimensions (a *DimensionError) if img has a zero side
//   - Returns ErrMemoryBudget if the workspace allocation is refused
//   - Returns the pass error in single-pass mode, or the backend error
//     when cfg.Backend is set
func (s *Session) Vectorize(img image.Image, cfg Config) (*Result, error) {
	start := time.Now()
	cfg = cfg.normalized()

	b := img.Bounds()
	if err := checkDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	src := imaging.ToRGBA(img)
	work, scale := imaging.FitWithin(src, cfg.MaxImageSize)
	w, h := work.Rect.Dx(), work.Rect.Dy()

	if cfg.Backend == nil {
		if err := s.prepare(w, h); err != nil {
			return nil, err
		}
	}

	r := &run{
		s:     s,
		cfg:   cfg,
		start: start,
		log: s.log.WithFields(logrus.Fields{
			"width":  w,
			"height": h,
			"mode":   cfg.Mode.String(),
		}),
		result: &Result{
			Width:       b.Dx(),
			Height:      b.Dy(),
			Scale:       scale,
			Mode:        cfg.Mode.String(),
			Thresholds:  NewThresholds(cfg.Detail, w, h),
			StrokeWidth: StrokeWidth(b.Dx(), b.Dy(), cfg.StrokePxAt1080p),
		},
	}
	if scale != 1 {
		r.log.WithField("scale", scale).Info("Image downscaled for processing")
	}

	r.img = r.preprocess(work)
	r.gray = imaging.Gray(r.img)

	var paths []Path
	var err error
	switch {
	case cfg.Backend != nil:
		paths, err = r.backend()
	case cfg.directional():
		paths = r.directional()
	case cfg.Multipass && cfg.PassCount > 1:
		paths = r.multipass()
	default:
		paths, err = r.single()
	}
	if err != nil {
		return nil, err
	}

	if cfg.PreserveColors {
		colorize(work, paths)
	}
	if scale != 1 {
		rescale(paths, scale)
	}
	if paths == nil {
		paths = []Path{}
	}

	r.result.Paths = paths
	r.result.ElapsedMs = durationMs(time.Since(start))
	r.log.WithFields(logrus.Fields{
		"paths":      len(paths),
		"passes":     len(r.result.Passes),
		"elapsed_ms": r.result.ElapsedMs,
	}).Info("Vectorization complete")
	return r.result, nil
}

// run is the state of one Vectorize call.
type run struct {
	s      *Session
	cfg    Config
	start  time.Time
	log    *logrus.Entry
	img    *image.RGBA
	gray   []uint8
	result *Result

	// hook, when set, runs at the start of every edge pass. An error fails
	// that pass.
	hook func(p pass) error
}

// preprocess applies background removal and noise filtering once, before
// any pass.
func (r *run) preprocess(img *image.RGBA) *image.RGBA {
	if r.cfg.BackgroundRemoval {
		phase := time.Now()
		out, report := imaging.RemoveBackground(img, imaging.BackgroundOptions{
			Algorithm: r.cfg.BackgroundAlgorithm,
			Strength:  r.cfg.BackgroundStrength,
			Threshold: r.cfg.BackgroundThreshold,
		})
		r.result.Background = &report
		r.log.WithFields(logrus.Fields{
			"algorithm":  report.Algorithm,
			"threshold":  report.Threshold,
			"faded":      report.FadedPixels,
			"elapsed_ms": durationMs(time.Since(phase)),
		}).Debug("Background removal")
		img = out
	}

	if r.cfg.NoiseFiltering && r.cfg.NoiseRadius > 0 {
		phase := time.Now()
		img = imaging.Denoise(img, r.cfg.NoiseRadius)
		r.log.WithFields(logrus.Fields{
			"radius":     r.cfg.NoiseRadius,
			"elapsed_ms": durationMs(time.Since(phase)),
		}).Debug("Noise filtering")
	}
	return img
}

// colorize attaches a sampled stroke colour to every path.
func colorize(img *image.RGBA, paths []Path) {
	forChunks(len(paths), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			if c, ok := imaging.StrokeColor(img, paths[i].Points); ok {
				paths[i].Color = c
			}
		}
	})
}

// rescale maps processing coordinates back to the source grid.
func rescale(paths []Path, scale float64) {
	for i := range paths {
		pts := paths[i].Points
		for j := range pts {
			pts[j] = pts[j].Scale(scale)
		}
		paths[i].Area *= scale * scale
	}
}

// Mask is a binary edge mask at processing resolution.
type Mask struct {
	Pixels []uint8
	Width  int
	Height int

	// Scale maps mask coordinates to source coordinates.
	Scale      float64
	Thresholds ThresholdSet
}

// EdgeMask preprocesses img like Vectorize and runs the edge classifier
// once at cfg.Detail in the given scan order. The returned pixels are a
// copy and stay valid after later calls.
func (s *Session) EdgeMask(img image.Image, cfg Config, order edges.ScanOrder) (*Mask, error) {
	cfg = cfg.normalized()
	b := img.Bounds()
	if err := checkDimensions(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}

	work, scale := imaging.FitWithin(imaging.ToRGBA(img), cfg.MaxImageSize)
	w, h := work.Rect.Dx(), work.Rect.Dy()
	if err := s.prepare(w, h); err != nil {
		return nil, err
	}

	r := &run{s: s, cfg: cfg, log: s.log, result: &Result{}}
	gray := imaging.Gray(r.preprocess(work))

	t := NewThresholds(cfg.Detail, w, h)
	mask, err := edges.Detect(s.ws, gray, t.EdgeOptions(order))
	if err != nil {
		return nil, err
	}
	return &Mask{
		Pixels:     append([]uint8(nil), mask...),
		Width:      w,
		Height:     h,
		Scale:      scale,
		Thresholds: t,
	}, nil
}
