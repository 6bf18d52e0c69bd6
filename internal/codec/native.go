package codec

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
)

// NativeEncoder encodes WebP in-process through the bundled libwebp.
// Always available; the default when cwebp is not installed.
type NativeEncoder struct{}

func (e *NativeEncoder) Name() string    { return "native" }
func (e *NativeEncoder) Available() bool { return true }

func (e *NativeEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	if err := checkBounds(img); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	opts := &webp.Options{Quality: float32(clampQuality(quality) * 100)}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
