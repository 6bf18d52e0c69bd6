// Package fit implements the size/quality targeting engine. Given a decoded
// raster and a conversion goal — a fixed quality, a byte-size cap, or both —
// it searches the space of {encoder quality, image scale} for a WebP encoding
// that satisfies the goal, using nothing but real probes of an opaque lossy
// encoder. Every byte size it reasons about came from an actual encode call;
// nothing is estimated.
//
// The engine is a pure function of (raster, request). All mutable search
// state is local to one Convert call, probes run strictly sequentially, and
// the caller owns the returned result.
package fit

import (
	"errors"
	"fmt"

	"github.com/ASHU191/Pixify-Convert/internal/codec"
	"github.com/ASHU191/Pixify-Convert/internal/raster"
)

// ErrNoEncoderOutput marks a conversion where every fallback tier was
// exhausted without the encoder producing any bytes. Distinct from input
// errors (raster.ErrEmptyInput, raster.ErrNotPNG): the input decoded fine but
// nothing could be encoded from it.
var ErrNoEncoderOutput = errors.New("no encoder output obtainable")

// errEmptyEncode marks a single probe that returned zero bytes without an
// explicit error. Treated exactly like a failed probe.
var errEmptyEncode = errors.New("encoder returned no bytes")

// Mode selects which search routines a conversion runs.
type Mode uint8

const (
	// ModeAuto is a single encode at the default quality. No search.
	ModeAuto Mode = iota
	// ModeQuality is a single encode at the requested quality. No search.
	ModeQuality
	// ModeSize searches quality (and optionally scale) to honor a size cap.
	ModeSize
	// ModeQualitySize holds quality fixed and varies only scale to honor
	// a size cap.
	ModeQualitySize
)

var modeNames = map[Mode]string{
	ModeAuto:        "auto",
	ModeQuality:     "quality",
	ModeSize:        "size",
	ModeQualitySize: "quality-size",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", m)
}

// ParseMode resolves a mode name from the CLI or a config file.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return ModeAuto, nil
	case "quality", "by-quality":
		return ModeQuality, nil
	case "size", "by-size":
		return ModeSize, nil
	case "quality-size", "by-quality-and-size":
		return ModeQualitySize, nil
	}
	return ModeAuto, fmt.Errorf("unknown mode %q (want auto, quality, size or quality-size)", s)
}

// Request describes one conversion goal. Built by the caller, never mutated
// during the search.
type Request struct {
	Mode Mode

	// Quality is the fractional encoder quality in [0, 1]. Read by the
	// quality and quality-size modes.
	Quality float64

	// MaxKB is the output size cap in kilobytes. Read by the size and
	// quality-size modes.
	MaxKB float64

	// AllowUpscale permits the size mode to grow the raster when the cap
	// leaves room for it.
	AllowUpscale bool
}

// Validate rejects goals the selected mode cannot work with.
func (r Request) Validate() error {
	if r.Mode == ModeQuality || r.Mode == ModeQualitySize {
		if r.Quality < 0 || r.Quality > 1 {
			return fmt.Errorf("quality %g outside [0, 1]", r.Quality)
		}
	}
	if r.Mode == ModeSize || r.Mode == ModeQualitySize {
		if r.MaxKB <= 0 {
			return fmt.Errorf("%s mode needs a positive size cap", r.Mode)
		}
	}
	return nil
}

// Attempt is one encoding produced by a probe of the encoder primitive.
// Scale is relative to the original raster; 1.0 means unchanged.
type Attempt struct {
	Bytes   []byte
	Quality float64
	Scale   float64
}

// SizeKB returns the encoded size in kilobytes.
func (a *Attempt) SizeKB() float64 {
	return float64(len(a.Bytes)) / 1024
}

// Result is the attempt a conversion settled on. MetCap reports whether the
// encoding honors the requested cap; it is vacuously true for modes that
// carry no cap. A false MetCap still delivers the smallest attainable bytes
// so the caller can surface an advisory instead of blocking the result.
type Result struct {
	Attempt
	MetCap bool
}

// Engine runs targeting searches over one encoder.
type Engine struct {
	enc codec.Encoder
}

// New returns an engine probing enc.
func New(enc codec.Encoder) *Engine {
	return &Engine{enc: enc}
}

// autoQuality is the single-probe quality used by ModeAuto.
const autoQuality = 0.90

// Convert runs the mode-selected search and settles on exactly one result,
// or fails with ErrNoEncoderOutput when no tier could produce bytes.
func (e *Engine) Convert(src *raster.Source, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Mode {
	case ModeAuto:
		return e.single(src, autoQuality)
	case ModeQuality:
		return e.single(src, req.Quality)
	case ModeSize:
		return e.bySize(src, req)
	case ModeQualitySize:
		// Upscaling is always permitted in this mode; the request toggle
		// only governs size-mode conversions.
		return e.fitFixedQuality(src, req.MaxKB, req.Quality, true)
	default:
		return nil, fmt.Errorf("unknown mode %d", req.Mode)
	}
}

// single encodes once at full scale. The quality and auto modes never search.
func (e *Engine) single(src *raster.Source, quality float64) (*Result, error) {
	att, err := e.probeScale(src, quality, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoEncoderOutput, err)
	}
	return &Result{Attempt: *att, MetCap: true}, nil
}

// bySize finds the highest quality fitting the cap at full resolution, grows
// the raster when the cap leaves profitable room, and falls back to the
// downscale sweep when even minimum quality overshoots.
func (e *Engine) bySize(src *raster.Source, req Request) (*Result, error) {
	att := e.searchQuality(src.Img, 1, req.MaxKB)
	if att == nil {
		return e.sweepDownscale(src, req.MaxKB)
	}
	if req.AllowUpscale && att.Quality >= upscaleMinQuality && req.MaxKB-att.SizeKB() > capSlackKB {
		if up := e.searchUpscale(src, req.MaxKB, att.Quality); up != nil {
			return &Result{Attempt: *up, MetCap: true}, nil
		}
	}
	return &Result{Attempt: *att, MetCap: true}, nil
}
