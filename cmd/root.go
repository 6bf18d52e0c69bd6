package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ASHU191/Pixify-Convert/internal/config"
)

var (
	version = "0.1.0"
	verbose bool
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "pixify",
	Short: "On-device PNG to WebP converter with size/quality targeting",
	Long: `pixify — converts PNG images to WebP entirely on this machine,
searching encoder quality and image scale until the output honors
your goal: a fixed quality, a byte-size cap, or both at once.

Every probed size comes from a real encode of the (possibly resampled)
image; nothing is estimated.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: <xdg-config>/pixify/config.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixify %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[pixify] "+format+"\n", args...)
	}
}

// localConfigName is the project-level config picked up from the working
// directory when --config is not given.
const localConfigName = "pixify.yaml"

// configPath resolves the active config file: --config wins, then a
// pixify.yaml in the working directory, then the user-level default location.
func configPath() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	if _, err := os.Stat(localConfigName); err == nil {
		return localConfigName, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// loadSettings reads the active config file.
func loadSettings() (*config.Settings, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	set, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return set, nil
}
