package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen. Content-addressed output names use 16 hex chars
// (the full 64 bits), which is collision-safe for any realistic number
// of converted images.
func ContentHash(data []byte, hexLen int) string {
	return truncate(hexString(xxhash.Sum64(data)), hexLen)
}

// ContentHashReader computes the xxHash64 of a stream without buffering it.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(hexString(h.Sum64()), hexLen), nil
}

func hexString(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])
}

func truncate(s string, n int) string {
	if n > 0 && n < len(s) {
		return s[:n]
	}
	return s
}
