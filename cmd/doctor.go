package cmd

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/ASHU191/Pixify-Convert/internal/codec"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check encoder availability and configuration",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	set, err := loadSettings()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("  Encoders:")
	for _, enc := range codec.All(set.CwebpPath) {
		mark, note := encoderStatus(enc)
		if enc.Name() == "cwebp" && enc.Available() {
			bin := set.CwebpPath
			if bin == "" {
				bin = "cwebp"
			}
			if path, err := exec.LookPath(bin); err == nil {
				note = path
			}
		}
		fmt.Printf("    %s %-8s %s\n", mark, enc.Name(), note)
	}
	fmt.Println()

	path, err := configPath()
	if err != nil {
		return err
	}
	fmt.Printf("  Config:    %s\n", path)
	fmt.Printf("  Mode:      %s\n", set.Mode)
	fmt.Printf("  Quality:   %d\n", set.Quality)
	if set.MaxKB > 0 {
		fmt.Printf("  Max KB:    %g\n", set.MaxKB)
	}
	fmt.Printf("  Encoder:   %s\n", set.Encoder)
	fmt.Println()
	return nil
}

// encoderStatus maps an encoder's availability to a report mark and note.
// A missing cwebp gets the install hint instead of a bare "unavailable".
func encoderStatus(enc codec.Encoder) (mark, note string) {
	if enc.Available() {
		return "✓", "ready"
	}
	if enc.Name() == "cwebp" {
		return "✗", "not installed (brew install webp / apt install webp)"
	}
	return "✗", "unavailable"
}
