// Package preset ships named conversion goals for common destinations.
package preset

import (
	"sort"

	"github.com/ASHU191/Pixify-Convert/internal/fit"
)

// Preset bundles an engine request under a memorable name.
type Preset struct {
	Name         string
	Mode         fit.Mode
	Quality      float64 // fractional, read by the quality modes
	MaxKB        float64 // size cap, read by the size modes
	AllowUpscale bool
}

// Built-in presets.
var presets = map[string]Preset{
	"web": {
		Name:  "web",
		Mode:  fit.ModeSize,
		MaxKB: 200,
	},
	"web-hq": {
		Name:    "web-hq",
		Mode:    fit.ModeQualitySize,
		Quality: 0.85,
		MaxKB:   350,
	},
	"thumbnail": {
		Name:    "thumbnail",
		Mode:    fit.ModeQualitySize,
		Quality: 0.75,
		MaxKB:   50,
	},
	"sticker": {
		// Telegram sticker budget: webp under 512 KB.
		Name:         "sticker",
		Mode:         fit.ModeSize,
		MaxKB:        512,
		AllowUpscale: true,
	},
	"archive": {
		Name:    "archive",
		Mode:    fit.ModeQuality,
		Quality: 0.95,
	},
}

// Get returns a preset by name. Falls back to web if unknown.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets["web"]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in preset.
func Known(name string) bool {
	_, ok := presets[name]
	return ok
}

// Names lists the built-in presets in stable order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request returns the engine request the preset stands for.
func (p Preset) Request() fit.Request {
	return fit.Request{
		Mode:         p.Mode,
		Quality:      p.Quality,
		MaxKB:        p.MaxKB,
		AllowUpscale: p.AllowUpscale,
	}
}
