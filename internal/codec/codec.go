package codec

import (
	"errors"
	"image"
)

// ErrZeroRaster marks an encode attempt on an image with no pixels.
var ErrZeroRaster = errors.New("zero-dimension raster")

// Encoder compresses a raster image to WebP bytes.
type Encoder interface {
	// Name identifies the implementation ("cwebp", "native").
	Name() string

	// Encode compresses img at the given quality, fractional 0 (smallest,
	// most lossy) to 1 (largest, near lossless). A failed encode returns an
	// error and no bytes; it never panics.
	Encode(img image.Image, quality float64) ([]byte, error)

	// Available reports whether the encoder is ready to use. External
	// encoders (cwebp) may not be installed.
	Available() bool
}

// clampQuality bounds a fractional quality to [0, 1].
func clampQuality(q float64) float64 {
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

// checkBounds rejects empty rasters before they reach an encoder backend.
func checkBounds(img image.Image) error {
	if img == nil {
		return ErrZeroRaster
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ErrZeroRaster
	}
	return nil
}
