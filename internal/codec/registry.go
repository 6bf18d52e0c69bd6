package codec

import (
	"fmt"
	"strings"
)

// All returns every known encoder, probing availability. cwebp first: it
// compresses better than the bundled libwebp when installed.
func All(cwebpPath string) []Encoder {
	return []Encoder{
		&CwebpEncoder{Path: cwebpPath},
		&NativeEncoder{},
	}
}

// Select resolves an encoder by name, or the best available one for "auto"
// (or an empty name). Forcing a name that is not available is an error.
func Select(name, cwebpPath string) (Encoder, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	encoders := All(cwebpPath)

	if name == "" || name == "auto" {
		for _, enc := range encoders {
			if enc.Available() {
				return enc, nil
			}
		}
		return nil, fmt.Errorf("no webp encoder available")
	}

	for _, enc := range encoders {
		if enc.Name() == name {
			if !enc.Available() {
				return nil, fmt.Errorf("encoder %q is not available on this system", name)
			}
			return enc, nil
		}
	}
	return nil, fmt.Errorf("unknown encoder %q (want auto, cwebp or native)", name)
}
