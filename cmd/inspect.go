package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ASHU191/Pixify-Convert/internal/hasher"
	"github.com/ASHU191/Pixify-Convert/internal/raster"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <png_file>...",
	Short: "Show dimensions, alpha and content hash of PNG files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	failures := 0
	for _, path := range args {
		if err := inspectOne(path); err != nil {
			fmt.Printf("  ✗ %-32s %v\n", path, err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failures, len(args))
	}
	return nil
}

func inspectOne(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	src, err := raster.DecodeFile(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	hash, err := hasher.ContentHashReader(f, 16)
	if err != nil {
		return err
	}

	alpha := "opaque"
	if raster.HasAlpha(src.Img) {
		alpha = "alpha"
	}
	fmt.Printf("  %-32s %5d×%-5d  aspect %.3f  %-6s  %8s  xxh64 %s\n",
		path, src.Width, src.Height, src.AspectRatio(), alpha,
		humanize.Bytes(uint64(info.Size())), hash)
	return nil
}
