package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/image/webp"

	"github.com/ASHU191/Pixify-Convert/internal/hasher"
	"github.com/ASHU191/Pixify-Convert/internal/report"
)

var verifyDecode bool

var verifyCmd = &cobra.Command{
	Use:   "verify <report_json>",
	Short: "Verify a run report and check the converted files on disk",
	Long: `Checks a report for structural problems and confirms every output
it references still exists with the recorded size and content hash.
With --decode each output is also decoded to prove it is valid WebP
with the recorded dimensions.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyDecode, "decode", false, "decode outputs to confirm they are valid WebP")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	reportPath := args[0]

	rep, err := report.ReadJSON(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	baseDir := filepath.Dir(reportPath)
	errs := verifyReport(rep, baseDir, verifyDecode)

	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d conversions — all outputs present\n", rep.Stats.Converted)
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("verification failed with %d errors", len(errs))
}

func verifyReport(rep *report.Report, baseDir string, decode bool) []string {
	var errs []string

	if rep.Version != report.SupportedReportVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", rep.Version))
	}
	if rep.Mode == "" {
		errs = append(errs, "missing mode")
	}

	seenOutputs := map[string]bool{}
	var converted, failed, capMissed int
	var inputBytes, outputBytes int64
	for i, e := range rep.Entries {
		inputBytes += e.InputSize
		if e.Source == "" {
			errs = append(errs, fmt.Sprintf("entry[%d]: empty source", i))
		}
		if e.Error != "" {
			failed++
			if e.Output != "" {
				errs = append(errs, fmt.Sprintf("entry[%d] %q: both error and output set", i, e.Source))
			}
			continue
		}
		converted++
		outputBytes += e.OutputSize
		if !e.MetCap {
			capMissed++
		}

		if e.Output == "" {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: missing output", i, e.Source))
			continue
		}
		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: invalid dimensions %dx%d", i, e.Source, e.Width, e.Height))
		}
		if e.Quality < 0 || e.Quality > 1 {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: quality %v outside [0, 1]", i, e.Source, e.Quality))
		}
		if e.Scale <= 0 {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: invalid scale %v", i, e.Source, e.Scale))
		}
		if seenOutputs[e.Output] {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: duplicate output %q", i, e.Source, e.Output))
		}
		seenOutputs[e.Output] = true

		fullPath := filepath.Join(baseDir, filepath.FromSlash(e.Output))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: file not found: %s", i, e.Source, e.Output))
			continue
		}
		if e.OutputSize > 0 && info.Size() != e.OutputSize {
			errs = append(errs, fmt.Sprintf("entry[%d] %q: size mismatch: report=%d, disk=%d",
				i, e.Source, e.OutputSize, info.Size()))
		}
		if e.Hash != "" {
			data, err := os.ReadFile(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("entry[%d] %q: read: %v", i, e.Source, err))
				continue
			}
			if got := hasher.ContentHash(data, len(e.Hash)); got != e.Hash {
				errs = append(errs, fmt.Sprintf("entry[%d] %q: hash mismatch: report=%s, disk=%s",
					i, e.Source, e.Hash, got))
			}
		}
		if decode {
			if msg := decodeCheck(fullPath, e.Width, e.Height); msg != "" {
				errs = append(errs, fmt.Sprintf("entry[%d] %q: %s", i, e.Source, msg))
			}
		}
	}

	// Stats consistency: every counter is re-derived from the entries.
	if rep.Stats.Converted != converted {
		errs = append(errs, fmt.Sprintf("stats.converted mismatch: %d != %d", rep.Stats.Converted, converted))
	}
	if rep.Stats.Failed != failed {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", rep.Stats.Failed, failed))
	}
	if rep.Stats.CapMissed != capMissed {
		errs = append(errs, fmt.Sprintf("stats.cap_missed mismatch: %d != %d", rep.Stats.CapMissed, capMissed))
	}
	if rep.Stats.TotalInputBytes != inputBytes {
		errs = append(errs, fmt.Sprintf("stats.total_input_bytes mismatch: %d != %d", rep.Stats.TotalInputBytes, inputBytes))
	}
	if rep.Stats.TotalOutputBytes != outputBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d", rep.Stats.TotalOutputBytes, outputBytes))
	}

	return errs
}

// decodeCheck decodes one output as WebP and compares its dimensions with
// the report entry. Returns a message describing the problem, or "".
func decodeCheck(path string, wantW, wantH int) string {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("open: %v", err)
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return fmt.Sprintf("not decodable as webp: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		return fmt.Sprintf("decoded dimensions %dx%d, report says %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
	return ""
}
