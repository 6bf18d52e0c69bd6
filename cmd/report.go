package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ASHU191/Pixify-Convert/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <report_json_or_out_dir>",
	Short: "Display statistics for a finished conversion run",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// defaultReportName is where convert drops its report when --report is given
// a directory.
const defaultReportName = "pixify.report.json"

func runReport(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for the report inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, defaultReportName)
	}

	rep, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	printReport(rep)
	return nil
}

func printReport(rep *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version: %d\n", rep.Version)
	fmt.Printf("  Generated:      %s\n", rep.GeneratedAt)
	fmt.Printf("  Mode:           %s\n", rep.Mode)
	fmt.Printf("  Encoder:        %s\n", rep.Encoder)
	fmt.Println()

	s := rep.Stats
	fmt.Printf("  Converted:      %d\n", s.Converted)
	fmt.Printf("  Failed:         %d\n", s.Failed)
	fmt.Printf("  Cap missed:     %d\n", s.CapMissed)
	fmt.Printf("  Input size:     %s\n", humanize.Bytes(uint64(s.TotalInputBytes)))
	fmt.Printf("  Output size:    %s\n", humanize.Bytes(uint64(s.TotalOutputBytes)))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:    %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Scale breakdown: how often the engine had to leave scale 1.
	full, shrunk, grown := 0, 0, 0
	for _, e := range rep.Entries {
		if e.Error != "" {
			continue
		}
		switch {
		case e.Scale < 1:
			shrunk++
		case e.Scale > 1:
			grown++
		default:
			full++
		}
	}
	fmt.Println("  Scale breakdown:")
	fmt.Printf("    kept size   %4d files\n", full)
	if shrunk > 0 {
		fmt.Printf("    downscaled  %4d files\n", shrunk)
	}
	if grown > 0 {
		fmt.Printf("    upscaled    %4d files\n", grown)
	}
	fmt.Println()

	// Quality distribution of successful conversions.
	buckets := map[int]int{}
	for _, e := range rep.Entries {
		if e.Error != "" {
			continue
		}
		q := int(math.Round(e.Quality * 100))
		buckets[q/10*10]++
	}
	var qs []int
	for q := range buckets {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	fmt.Println("  Quality breakdown:")
	for _, q := range qs {
		fmt.Printf("    q %2d-%2d  %4d files\n", q, q+9, buckets[q])
	}

	// Warnings.
	var warnings []string
	for _, e := range rep.Entries {
		if e.Error != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", e.Source, e.Error))
		} else if !e.MetCap {
			warnings = append(warnings, fmt.Sprintf("%s: cap missed (got %s)", e.Source, humanize.Bytes(uint64(e.OutputSize))))
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
