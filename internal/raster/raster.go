// Package raster handles decoded source images: loading PNG input with
// validation, alpha detection, and the resampling primitive used by the
// targeting engine.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// Input validation errors. Both are distinguishable from encoder failures so
// the caller can tell a bad file from a conversion that produced no output.
var (
	// ErrEmptyInput marks a zero-byte input file.
	ErrEmptyInput = errors.New("empty input file")

	// ErrNotPNG marks an input that does not carry the PNG signature.
	ErrNotPNG = errors.New("input is not a PNG")
)

// pngMagic is the 8-byte PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Source is one decoded input image. Immutable once decoded; the targeting
// engine reads it for the duration of a single conversion.
type Source struct {
	Img    image.Image
	Width  int
	Height int
}

// Decode reads a complete PNG stream into a Source.
func Decode(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if !bytes.HasPrefix(data, pngMagic) {
		return nil, ErrNotPNG
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	b := img.Bounds()
	return &Source{Img: img, Width: b.Dx(), Height: b.Dy()}, nil
}

// DecodeFile opens path and decodes it as PNG.
func DecodeFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// AspectRatio returns width / height.
func (s *Source) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// ScaledSize floors both dimensions by factor and clamps each axis to a
// minimum of one pixel.
func ScaledSize(w, h int, factor float64) (int, int) {
	sw := int(math.Floor(float64(w) * factor))
	sh := int(math.Floor(float64(h) * factor))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

// Resample resizes img to w×h with Lanczos filtering.
func Resample(img image.Image, w, h int) image.Image {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// HasAlpha reports whether any pixel has alpha below fully opaque.
func HasAlpha(img image.Image) bool {
	switch src := img.(type) {
	case *image.NRGBA:
		for i := 3; i < len(src.Pix); i += 4 {
			if src.Pix[i] < 255 {
				return true
			}
		}
		return false
	case *image.RGBA:
		for i := 3; i < len(src.Pix); i += 4 {
			if src.Pix[i] < 255 {
				return true
			}
		}
		return false
	case *image.Gray:
		return false
	default:
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				_, _, _, a := img.At(x, y).RGBA()
				if a < 65535 {
					return true
				}
			}
		}
		return false
	}
}
