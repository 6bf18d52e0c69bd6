package fit

import (
	"image"

	"github.com/ASHU191/Pixify-Convert/internal/raster"
)

// Search tuning. Quality is fractional; scale is relative to the original
// raster. The quality window bottoms out just above zero because encoders
// reject a literal 0, and tops out just below 1 to stay inside the lossy
// range.
const (
	minQuality   = 0.01
	maxQuality   = 0.999
	qualityStep  = 0.02
	qualityEps   = 0.005
	qualityIters = 12

	maxUpscale   = 6.0
	scaleStep    = 0.05
	scaleEps     = 0.02
	upscaleIters = 12

	// capSlackKB is close enough: an accepted attempt within this margin
	// below the cap ends an upscale search early, and a full-resolution
	// fit must clear more than this margin before upscaling is considered
	// profitable.
	capSlackKB = 2.0

	// upscaleMinQuality gates upscaling in size mode. Growing pixels only
	// pays off when quality already saturated near the top of its range.
	upscaleMinQuality = 0.95
)

// bisection is a bounded binary search over one encode parameter. Each
// iteration probes the midpoint of the [lo, hi] window. An accepted candidate
// becomes the running best and the bottom of the window shifts up past the
// midpoint by step; a rejected one pulls the top down the same way. The
// search halts when the window closes below converge (including the crossed
// case) or the probe budget runs out.
type bisection struct {
	lo, hi   float64
	step     float64
	converge float64
	iters    int
}

// run executes the search and returns the best accepted attempt, or nil when
// nothing was accepted. probe performs one real encode of the candidate;
// accept decides whether its attempt honors the cap; done, when non-nil,
// short-circuits the search after an accepted attempt. A probe error ends
// the whole search when stopOnErr is set, otherwise the failing candidate
// counts as a rejection and the search continues on the remaining window.
func (b bisection) run(
	probe func(x float64) (*Attempt, error),
	accept func(*Attempt) bool,
	done func(*Attempt) bool,
	stopOnErr bool,
) *Attempt {
	var best *Attempt
	lo, hi := b.lo, b.hi
	for i := 0; i < b.iters; i++ {
		if hi-lo < b.converge {
			break
		}
		mid := (lo + hi) / 2
		att, err := probe(mid)
		if err != nil {
			if stopOnErr {
				break
			}
			hi = mid - b.step
			continue
		}
		if accept(att) {
			best = att
			if done != nil && done(att) {
				break
			}
			lo = mid + b.step
		} else {
			hi = mid - b.step
		}
	}
	return best
}

// encode runs one probe of the encoder primitive and tags the produced bytes
// with the parameters that made them.
func (e *Engine) encode(img image.Image, quality, scale float64) (*Attempt, error) {
	data, err := e.enc.Encode(img, quality)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyEncode
	}
	return &Attempt{Bytes: data, Quality: quality, Scale: scale}, nil
}

// probeScale resamples the source to scale and encodes the intermediate
// raster. The resampled pixels are discarded as soon as the probe returns;
// only the encoded bytes survive.
func (e *Engine) probeScale(src *raster.Source, quality, scale float64) (*Attempt, error) {
	img := src.Img
	if scale != 1.0 {
		w, h := raster.ScaledSize(src.Width, src.Height, scale)
		img = raster.Resample(src.Img, w, h)
	}
	return e.encode(img, quality, scale)
}

// searchQuality finds the highest quality whose encoding of img fits capKB.
// img must already be at the given scale; produced attempts carry that scale.
// A probe failure ends the search with the best found so far. Returns nil
// when no probe came in under the cap.
func (e *Engine) searchQuality(img image.Image, scale, capKB float64) *Attempt {
	b := bisection{lo: minQuality, hi: maxQuality, step: qualityStep, converge: qualityEps, iters: qualityIters}
	return b.run(
		func(q float64) (*Attempt, error) { return e.encode(img, q, scale) },
		func(a *Attempt) bool { return a.SizeKB() <= capKB },
		nil,
		true,
	)
}

// searchUpscale grows the raster within [1, maxUpscale] at a fixed quality,
// keeping the largest scale that still encodes under capKB. The search ends
// early once an accepted attempt lands within capSlackKB below the cap;
// chasing the last kilobyte is not worth further resamples. A failed probe
// rejects that scale and the search continues on the remaining window.
func (e *Engine) searchUpscale(src *raster.Source, capKB, quality float64) *Attempt {
	b := bisection{lo: 1, hi: maxUpscale, step: scaleStep, converge: scaleEps, iters: upscaleIters}
	return b.run(
		func(s float64) (*Attempt, error) { return e.probeScale(src, quality, s) },
		func(a *Attempt) bool { return a.SizeKB() <= capKB },
		func(a *Attempt) bool { return capKB-a.SizeKB() <= capSlackKB },
		false,
	)
}
