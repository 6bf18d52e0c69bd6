// Package config loads tool settings from the user config file and the
// environment. Command-line flags take precedence at the CLI layer.
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Settings holds the persistent tunables of the tool.
type Settings struct {
	Mode         string  `mapstructure:"mode"`
	Quality      int     `mapstructure:"quality"` // percent, 1-100
	MaxKB        float64 `mapstructure:"max_kb"`
	AllowUpscale bool    `mapstructure:"allow_upscale"`
	OutDir       string  `mapstructure:"out_dir"`
	Encoder      string  `mapstructure:"encoder"`
	CwebpPath    string  `mapstructure:"cwebp_path"`
	ContentHash  bool    `mapstructure:"content_hash"`
}

// DefaultPath returns the user-level config location under the XDG config
// home, creating parent directories as needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("pixify", "config.yaml"))
}

// Load merges defaults, the config file at path and PIXIFY_* environment
// variables, in that order of precedence.
func Load(path string) (*Settings, error) {
	v := viper.New()

	// Every key needs a registered default: AutomaticEnv only resolves
	// keys viper already knows about during Unmarshal.
	v.SetDefault("mode", "auto")
	v.SetDefault("quality", 90)
	v.SetDefault("encoder", "auto")
	v.SetDefault("max_kb", 0.0)
	v.SetDefault("allow_upscale", false)
	v.SetDefault("out_dir", "")
	v.SetDefault("cwebp_path", "")
	v.SetDefault("content_hash", false)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	// A missing config file is fine; defaults and env still apply.
	_ = v.ReadInConfig()

	v.SetEnvPrefix("PIXIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
