package fit

import (
	"fmt"

	"github.com/ASHU191/Pixify-Convert/internal/raster"
)

// downscaleLadder is the descending scale ladder swept when a quality search
// at full resolution cannot satisfy the cap. Uniform 0.05 rungs down to 0.30,
// then a tighter tail for very aggressive caps.
var downscaleLadder = []float64{
	0.95, 0.90, 0.85, 0.80, 0.75, 0.70, 0.65, 0.60, 0.55, 0.50,
	0.45, 0.40, 0.35, 0.30, 0.25, 0.20, 0.15, 0.12, 0.10,
}

// rescueLadder is the tail of small scales the fixed-quality fit probes after
// its scale bisection found nothing under the cap.
var rescueLadder = []float64{0.25, 0.20, 0.15, 0.12, 0.10}

const (
	// fallbackQuality is the low quality used by rescue probes once the
	// regular searches have failed.
	fallbackQuality = 0.35

	// Scale bisection window for the fixed-quality fit. Shorter budget
	// than the upscale search; the window is smaller.
	minFitScale = 0.1
	fitIters    = 8
)

// sweepDownscale walks the scale ladder top down, running a full quality
// search per rung, and returns at the first rung where some quality fits the
// cap. Rungs where the quality search comes up empty are reprobed once at
// fallbackQuality; the smallest such rescue encoding is retained in case the
// whole ladder fails. The final fallback is the original resolution at
// fallbackQuality, returned with MetCap=false. Only when every tier produced
// zero bytes does the sweep fail with ErrNoEncoderOutput.
func (e *Engine) sweepDownscale(src *raster.Source, capKB float64) (*Result, error) {
	var rescue *Attempt
	for _, scale := range downscaleLadder {
		w, h := raster.ScaledSize(src.Width, src.Height, scale)
		img := raster.Resample(src.Img, w, h)

		if att := e.searchQuality(img, scale, capKB); att != nil {
			return &Result{Attempt: *att, MetCap: true}, nil
		}
		att, err := e.encode(img, fallbackQuality, scale)
		if err != nil {
			continue
		}
		if rescue == nil || len(att.Bytes) < len(rescue.Bytes) {
			rescue = att
		}
	}
	if rescue != nil {
		return &Result{Attempt: *rescue, MetCap: rescue.SizeKB() <= capKB}, nil
	}
	att, err := e.probeScale(src, fallbackQuality, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEncoderOutput, err)
	}
	return &Result{Attempt: *att, MetCap: att.SizeKB() <= capKB}, nil
}

// fitFixedQuality holds quality constant and varies only scale to honor the
// cap. The first probe runs at full resolution: if it already fits, the
// attempt is returned as is (optionally grown through the upscale search).
// Otherwise scale is bisected over [minFitScale, 1] for the largest fitting
// raster, then the rescue ladder is probed keeping the smallest encoding.
// When nothing fits the full-resolution attempt comes back with MetCap=false;
// quality is never compromised in this mode.
func (e *Engine) fitFixedQuality(src *raster.Source, capKB, quality float64, allowUpscale bool) (*Result, error) {
	base, err := e.probeScale(src, quality, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEncoderOutput, err)
	}
	if base.SizeKB() <= capKB {
		if allowUpscale {
			if up := e.searchUpscale(src, capKB, quality); up != nil {
				return &Result{Attempt: *up, MetCap: true}, nil
			}
		}
		return &Result{Attempt: *base, MetCap: true}, nil
	}

	b := bisection{lo: minFitScale, hi: 1, step: scaleStep, converge: scaleEps, iters: fitIters}
	att := b.run(
		func(s float64) (*Attempt, error) { return e.probeScale(src, quality, s) },
		func(a *Attempt) bool { return a.SizeKB() <= capKB },
		nil,
		false,
	)
	if att != nil {
		return &Result{Attempt: *att, MetCap: true}, nil
	}

	var smallest *Attempt
	for _, scale := range rescueLadder {
		att, err := e.probeScale(src, quality, scale)
		if err != nil {
			continue
		}
		if smallest == nil || len(att.Bytes) < len(smallest.Bytes) {
			smallest = att
		}
	}
	if smallest != nil && smallest.SizeKB() <= capKB {
		return &Result{Attempt: *smallest, MetCap: true}, nil
	}
	return &Result{Attempt: *base, MetCap: false}, nil
}
