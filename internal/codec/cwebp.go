package codec

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// CwebpEncoder encodes images to WebP by shelling out to cwebp.
// This avoids CGO while still producing the best-compressed WebP.
// Install: brew install webp / apt install webp
type CwebpEncoder struct {
	// Path overrides PATH lookup when set (config: cwebp_path).
	Path string

	once      sync.Once
	available bool
	binPath   string
}

func (e *CwebpEncoder) Name() string { return "cwebp" }

func (e *CwebpEncoder) Available() bool {
	e.once.Do(func() {
		bin := e.Path
		if bin == "" {
			bin = "cwebp"
		}
		path, err := exec.LookPath(bin)
		if err == nil {
			e.available = true
			e.binPath = path
		}
	})
	return e.available
}

func (e *CwebpEncoder) Encode(img image.Image, quality float64) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if err := checkBounds(img); err != nil {
		return nil, err
	}

	// Write source as PNG to temp file (cwebp reads files).
	// Use atomic counter to ensure unique filenames across goroutines.
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("pixify_src_%d_*.png", id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	dstFile, err := os.CreateTemp("", fmt.Sprintf("pixify_dst_%d_*.webp", id))
	if err != nil {
		srcFile.Close()
		os.Remove(srcPath)
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(srcPath)
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	srcFile.Close()

	// cwebp takes quality as a 0-100 float.
	cmd := exec.Command(e.binPath,
		"-q", fmt.Sprintf("%.2f", clampQuality(quality)*100),
		"-m", "6", // compression method (0=fast, 6=best)
		"-mt", // multi-threaded
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}
