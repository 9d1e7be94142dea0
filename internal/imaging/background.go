package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// BackgroundAlgorithm selects how the fade threshold is chosen.
type BackgroundAlgorithm string

const (
	// BackgroundAuto picks adaptive for busy images and Otsu otherwise.
	BackgroundAuto BackgroundAlgorithm = "auto"
	// BackgroundOtsu uses the Otsu threshold of the luminance histogram.
	BackgroundOtsu BackgroundAlgorithm = "otsu"
	// BackgroundAdaptive uses mean - 0.7 x standard deviation.
	BackgroundAdaptive BackgroundAlgorithm = "adaptive"
)

const (
	// edgeSampleRatio is the fraction of width/height sampled along each
	// border to find background colours.
	edgeSampleRatio = 0.1

	// maxReferenceColors bounds how many distinct border colours each pixel
	// is compared with.
	maxReferenceColors = 16

	// toleranceScale converts strength in [0,1] to a Lab distance.
	toleranceScale = 0.3

	// complexityCutoff is where auto switches to adaptive.
	complexityCutoff = 0.3

	adaptiveStdFactor  = 0.7
	adaptiveFadeFactor = 0.8
)

// ParseBackgroundAlgorithm converts a name to a BackgroundAlgorithm.
// The empty string selects auto.
func ParseBackgroundAlgorithm(s string) (BackgroundAlgorithm, error) {
	switch BackgroundAlgorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackgroundAuto:
		return BackgroundAuto, nil
	case BackgroundOtsu:
		return BackgroundOtsu, nil
	case BackgroundAdaptive:
		return BackgroundAdaptive, nil
	default:
		return BackgroundAuto, fmt.Errorf("unknown background algorithm %q (want auto, otsu or adaptive)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler using
// ParseBackgroundAlgorithm.
func (a *BackgroundAlgorithm) UnmarshalText(b []byte) error {
	alg, err := ParseBackgroundAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

// BackgroundOptions configures RemoveBackground.
type BackgroundOptions struct {
	Algorithm BackgroundAlgorithm

	// Strength in [0,1] sets both the colour tolerance of the background
	// mask and how far masked pixels are pushed toward white.
	Strength float64

	// Threshold overrides the computed luminance threshold when in 1..255.
	// Only the Otsu path honours it.
	Threshold int
}

// BackgroundReport summarises a removal run.
type BackgroundReport struct {
	Algorithm       BackgroundAlgorithm `json:"algorithm"`
	Threshold       uint8               `json:"threshold"`
	Complexity      float64             `json:"complexity"`
	ReferenceColors int                 `json:"reference_colors"`
	MaskedPixels    int                 `json:"masked_pixels"`
	FadedPixels     int                 `json:"faded_pixels"`
}

// RemoveBackground fades the background of img toward white and returns a
// new image; img is not modified.
//
// # Algorithm
//
//  1. Sample colours from a border band (10% of each side) and keep the
//     most frequent ones as background references.
//  2. Mark every pixel within Lab distance 0.3 x Strength of a reference
//     as background.
//  3. Pick a luminance threshold: Otsu, or mean - 0.7 sigma (adaptive).
//     Auto chooses adaptive when the sampled neighbour contrast exceeds 0.3.
//  4. Background pixels darker than the threshold are blended toward
//     white by Strength (Otsu) or 0.8 x Strength (adaptive).
func RemoveBackground(img *image.RGBA, opts BackgroundOptions) (*image.RGBA, BackgroundReport) {
	strength := math.Max(0, math.Min(1, opts.Strength))
	out := ToRGBA(img) // copy

	report := BackgroundReport{Algorithm: opts.Algorithm}
	if report.Algorithm == "" {
		report.Algorithm = BackgroundAuto
	}
	if report.Algorithm == BackgroundAuto {
		report.Complexity = Complexity(img)
		if report.Complexity > complexityCutoff {
			report.Algorithm = BackgroundAdaptive
		} else {
			report.Algorithm = BackgroundOtsu
		}
	}

	refs := referenceColors(img)
	report.ReferenceColors = len(refs)
	mask := backgroundMask(img, refs, strength*toleranceScale)

	gray := Gray(img)
	var blend float64
	switch report.Algorithm {
	case BackgroundAdaptive:
		report.Threshold = adaptiveThreshold(gray)
		blend = strength * adaptiveFadeFactor
	default:
		if opts.Threshold > 0 && opts.Threshold < 256 {
			report.Threshold = uint8(opts.Threshold)
		} else {
			report.Threshold = OtsuThreshold(gray)
		}
		blend = strength
	}

	w := out.Rect.Dx()
	for i, bg := range mask {
		if !bg {
			continue
		}
		report.MaskedPixels++
		if gray[i] >= report.Threshold {
			continue
		}
		x, y := i%w, i/w
		p := out.Pix[y*out.Stride+x*4 : y*out.Stride+x*4+3]
		for c := range p {
			p[c] = uint8(float64(p[c])*(1-blend) + 255*blend)
		}
		report.FadedPixels++
	}
	return out, report
}

// referenceColors returns the most frequent colours of the border band.
func referenceColors(img *image.RGBA) []colorful.Color {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	bandW := min(max(int(float64(w)*edgeSampleRatio), 1), max(w/2, 1))
	bandH := min(max(int(float64(h)*edgeSampleRatio), 1), max(h/2, 1))

	counts := make(map[uint32]int)
	sample := func(x, y int) {
		o := y*img.Stride + x*4
		key := uint32(img.Pix[o])<<16 | uint32(img.Pix[o+1])<<8 | uint32(img.Pix[o+2])
		counts[key]++
	}
	for y := 0; y < h; y++ {
		inRowBand := y < bandH || y >= h-bandH
		for x := 0; x < w; x++ {
			if inRowBand || x < bandW || x >= w-bandW {
				sample(x, y)
			}
		}
	}

	keys := make([]uint32, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > maxReferenceColors {
		keys = keys[:maxReferenceColors]
	}

	refs := make([]colorful.Color, len(keys))
	for i, k := range keys {
		refs[i] = rgbColor(uint8(k>>16), uint8(k>>8), uint8(k))
	}
	return refs
}

// backgroundMask marks pixels whose colour is within tolerance of any
// reference. Decisions are memoised per distinct colour.
func backgroundMask(img *image.RGBA, refs []colorful.Color, tolerance float64) []bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	mask := make([]bool, w*h)
	if len(refs) == 0 {
		return mask
	}
	seen := make(map[uint32]bool)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*img.Stride + x*4
			r, g, b := img.Pix[o], img.Pix[o+1], img.Pix[o+2]
			key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			bg, ok := seen[key]
			if !ok {
				c := rgbColor(r, g, b)
				for _, ref := range refs {
					if c.DistanceLab(ref) <= tolerance {
						bg = true
						break
					}
				}
				seen[key] = bg
			}
			mask[y*w+x] = bg
		}
	}
	return mask
}

func rgbColor(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// OtsuThreshold returns the luminance threshold that maximises the
// between-class variance of gray. Empty input yields 128.
func OtsuThreshold(gray []uint8) uint8 {
	if len(gray) == 0 {
		return 128
	}
	var hist [256]float64
	for _, v := range gray {
		hist[v]++
	}
	total := float64(len(gray))

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * c
	}

	best := uint8(128)
	bestVar := 0.0
	var w0, sum0 float64
	for t := 0; t < 255; t++ {
		w0 += hist[t]
		sum0 += float64(t) * hist[t]
		if t == 0 {
			continue
		}
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}
		m0 := sum0 / w0
		m1 := (sumAll - sum0) / w1
		between := (w0 / total) * (w1 / total) * (m0 - m1) * (m0 - m1)
		if between > bestVar {
			bestVar = between
			best = uint8(t)
		}
	}
	return best
}

// adaptiveThreshold returns mean - 0.7 sigma of gray, clamped to a byte.
func adaptiveThreshold(gray []uint8) uint8 {
	if len(gray) == 0 {
		return 128
	}
	values := make([]float64, len(gray))
	for i, v := range gray {
		values[i] = float64(v)
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	t := mean - adaptiveStdFactor*std
	return uint8(math.Max(0, math.Min(255, t)))
}

// Complexity estimates how busy an image is: the mean absolute RGB
// difference to the right and lower neighbours, sampled every 4 pixels and
// normalised so a checkerboard of black and white approaches 2.
func Complexity(img *image.RGBA) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w < 3 || h < 3 {
		return 0
	}
	const step = 4
	var total float64
	samples := 0
	diff := func(o1, o2 int) float64 {
		var d float64
		for c := 0; c < 3; c++ {
			d += math.Abs(float64(img.Pix[o1+c]) - float64(img.Pix[o2+c]))
		}
		return d / 3
	}
	for y := 1; y < h-1; y += step {
		for x := 1; x < w-1; x += step {
			o := y*img.Stride + x*4
			total += (diff(o, o+4) + diff(o, o+img.Stride)) / 255
			samples++
		}
	}
	if samples == 0 {
		return 0
	}
	return total / float64(samples)
}
