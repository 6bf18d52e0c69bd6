package preset

import (
	"testing"

	"github.com/ASHU191/Pixify-Convert/internal/fit"
)

func TestGetKnown(t *testing.T) {
	p := Get("sticker")
	if p.Mode != fit.ModeSize {
		t.Errorf("sticker mode: got %v", p.Mode)
	}
	if p.MaxKB != 512 {
		t.Errorf("sticker cap: got %v", p.MaxKB)
	}
	if !p.AllowUpscale {
		t.Error("sticker should allow upscale")
	}
}

func TestGetUnknownFallsBack(t *testing.T) {
	p := Get("no-such-preset")
	if p.Name != "no-such-preset" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.Mode != fit.ModeSize || p.MaxKB != 200 {
		t.Errorf("fallback should mirror web: got %+v", p)
	}
	if Known("no-such-preset") {
		t.Error("unknown preset reported as known")
	}
}

func TestRequest(t *testing.T) {
	req := Get("thumbnail").Request()
	if req.Mode != fit.ModeQualitySize {
		t.Errorf("mode: got %v", req.Mode)
	}
	if req.Quality != 0.75 || req.MaxKB != 50 {
		t.Errorf("goal: got q=%v cap=%v", req.Quality, req.MaxKB)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("built-in preset must validate: %v", err)
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("names: got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
	for _, n := range names {
		if !Known(n) {
			t.Errorf("%q listed but not known", n)
		}
	}
}
