package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ASHU191/Pixify-Convert/internal/codec"
	"github.com/ASHU191/Pixify-Convert/internal/config"
	"github.com/ASHU191/Pixify-Convert/internal/fit"
	"github.com/ASHU191/Pixify-Convert/internal/hasher"
	"github.com/ASHU191/Pixify-Convert/internal/preset"
	"github.com/ASHU191/Pixify-Convert/internal/raster"
	"github.com/ASHU191/Pixify-Convert/internal/report"
	"github.com/ASHU191/Pixify-Convert/internal/session"
)

var (
	convertOutDir       string
	convertMode         string
	convertQuality      int
	convertMaxKB        float64
	convertAllowUpscale bool
	convertPreset       string
	convertEncoder      string
	convertCwebpPath    string
	convertContentHash  bool
	convertReportPath   string
	convertForce        bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <png_file_or_dir>...",
	Short: "Convert PNG images to WebP honoring a quality or size goal",
	Long: `Converts the given PNG files (directories are scanned recursively)
to WebP, strictly one file at a time. The targeting mode decides what
the engine searches for:

  auto          single encode at quality 90
  quality       single encode at --quality
  size          highest quality fitting --max-kb, downscaling if needed
  quality-size  quality held at --quality, only scale varies to fit --max-kb

When --mode is not given it is inferred from the goals you pass: both
--quality and --max-kb select quality-size, one of them selects quality
or size, neither falls back to the configured mode.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "./pixify_out", "output directory")
	convertCmd.Flags().StringVarP(&convertMode, "mode", "m", "", "targeting mode (auto, quality, size, quality-size)")
	convertCmd.Flags().IntVarP(&convertQuality, "quality", "q", 0, "encoder quality 0-100")
	convertCmd.Flags().Float64Var(&convertMaxKB, "max-kb", 0, "output size cap in KB")
	convertCmd.Flags().BoolVar(&convertAllowUpscale, "allow-upscale", false, "let size mode grow the image toward the cap")
	convertCmd.Flags().StringVarP(&convertPreset, "preset", "p", "", fmt.Sprintf("named goal (%s)", strings.Join(preset.Names(), ", ")))
	convertCmd.Flags().StringVar(&convertEncoder, "encoder", "", "webp encoder (auto, cwebp, native)")
	convertCmd.Flags().StringVar(&convertCwebpPath, "cwebp-path", "", "path to the cwebp binary")
	convertCmd.Flags().BoolVar(&convertContentHash, "content-hash", false, "embed a content hash in output filenames")
	convertCmd.Flags().StringVar(&convertReportPath, "report", "", "write a JSON run report to this path")
	convertCmd.Flags().BoolVar(&convertForce, "force", false, "overwrite existing output files")
	rootCmd.AddCommand(convertCmd)
}

// resolveRequest builds the engine request from config, preset and flags.
// Flags win over the preset, which wins over the config file. The mode is
// inferred from which goal flags were touched unless --mode names one; the
// configured mode is parsed only when nothing else decides, so a bad config
// value cannot veto an explicit --mode.
func resolveRequest(cmd *cobra.Command, set *config.Settings) (fit.Request, error) {
	req := fit.Request{
		Quality:      float64(set.Quality) / 100,
		MaxKB:        set.MaxKB,
		AllowUpscale: set.AllowUpscale,
	}

	if convertPreset != "" {
		if !preset.Known(convertPreset) {
			logVerbose("unknown preset %q, falling back to web", convertPreset)
		}
		req = preset.Get(convertPreset).Request()
	}

	qualitySet := cmd.Flags().Changed("quality")
	capSet := cmd.Flags().Changed("max-kb")
	if qualitySet {
		if convertQuality < 0 || convertQuality > 100 {
			return req, fmt.Errorf("quality %d outside 0-100", convertQuality)
		}
		req.Quality = float64(convertQuality) / 100
	}
	if capSet {
		req.MaxKB = convertMaxKB
	}
	if cmd.Flags().Changed("allow-upscale") {
		req.AllowUpscale = convertAllowUpscale
	}

	switch {
	case cmd.Flags().Changed("mode"):
		m, err := fit.ParseMode(convertMode)
		if err != nil {
			return req, err
		}
		req.Mode = m
	case convertPreset != "":
		// The preset already picked its mode.
	case qualitySet && capSet:
		req.Mode = fit.ModeQualitySize
	case capSet:
		req.Mode = fit.ModeSize
	case qualitySet:
		req.Mode = fit.ModeQuality
	default:
		m, err := fit.ParseMode(set.Mode)
		if err != nil {
			return req, fmt.Errorf("config: %w", err)
		}
		req.Mode = m
	}

	return req, req.Validate()
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()

	set, err := loadSettings()
	if err != nil {
		return err
	}
	req, err := resolveRequest(cmd, set)
	if err != nil {
		return err
	}

	outDir := convertOutDir
	if !cmd.Flags().Changed("out") && set.OutDir != "" {
		outDir = set.OutDir
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	cwebpPath := convertCwebpPath
	if cwebpPath == "" {
		cwebpPath = set.CwebpPath
	}
	encName := convertEncoder
	if encName == "" {
		encName = set.Encoder
	}
	enc, err := codec.Select(encName, cwebpPath)
	if err != nil {
		return err
	}

	sources, err := session.Scan(args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no PNG inputs found in %s", strings.Join(args, ", "))
	}

	logVerbose("mode:    %s", req.Mode)
	logVerbose("encoder: %s", enc.Name())
	logVerbose("output:  %s", absOut)
	logVerbose("found %d PNG files", len(sources))

	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	sess := session.New(fit.New(enc))
	defer sess.Close()
	for _, src := range sources {
		sess.Add(src)
	}

	rep := report.New(req.Mode.String(), enc.Name())
	withHash := convertContentHash || set.ContentHash

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := sess.Run(ctx, req, func(it *session.Item) {
		rep.Add(finishItem(it, absOut, withHash))
	})

	rep.ComputeStats()
	if convertReportPath != "" {
		reportPath := convertReportPath
		if info, err := os.Stat(reportPath); err == nil && info.IsDir() {
			reportPath = filepath.Join(reportPath, defaultReportName)
		}
		if err := report.WriteJSON(rep, reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logVerbose("report:  %s", reportPath)
	}

	printConvertReport(rep, time.Since(start))

	if runErr != nil {
		return fmt.Errorf("interrupted after %d of %d files", len(rep.Entries), len(sources))
	}
	if rep.Stats.Converted == 0 && rep.Stats.Failed > 0 {
		return fmt.Errorf("all %d files failed to convert", rep.Stats.Failed)
	}
	return nil
}

// finishItem writes one finished item to disk, prints its line and returns
// the report entry. Write refusals and per-item conversion failures land in
// the entry's Error; the batch itself keeps going.
func finishItem(it *session.Item, outDir string, withHash bool) report.Entry {
	entry := report.Entry{Source: it.Source.Rel, InputSize: it.Source.Size}

	if it.Err != nil {
		entry.Error = it.Err.Error()
		fmt.Printf("  ✗ %-40s %v\n", truncKey(it.Source.Rel, 40), it.Err)
		return entry
	}

	h := it.Result()
	data := h.Bytes()
	outW, outH := raster.ScaledSize(it.Width, it.Height, h.Scale())

	relOut := outputName(it.Source.Rel, data, withHash)
	outPath := filepath.Join(outDir, filepath.FromSlash(relOut))
	if dir := filepath.Dir(outPath); dir != outDir {
		os.MkdirAll(dir, 0o755)
	}

	if !convertForce {
		if _, err := os.Stat(outPath); err == nil {
			entry.Error = fmt.Sprintf("output exists: %s", relOut)
			fmt.Printf("  ✗ %-40s output exists, skipping (use --force)\n", truncKey(it.Source.Rel, 40))
			return entry
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		entry.Error = fmt.Sprintf("write: %v", err)
		fmt.Printf("  ✗ %-40s %v\n", truncKey(it.Source.Rel, 40), err)
		return entry
	}

	entry.Output = relOut
	entry.Width = outW
	entry.Height = outH
	entry.HasAlpha = it.HasAlpha
	entry.OutputSize = int64(len(data))
	entry.Quality = h.Quality()
	entry.Scale = h.Scale()
	entry.MetCap = h.MetCap()
	entry.Hash = hasher.ContentHash(data, 16)

	line := fmt.Sprintf("  ✓ %-40s %8s → %8s  q=%d scale=%.2f",
		truncKey(it.Source.Rel, 40),
		humanize.Bytes(uint64(it.Source.Size)),
		humanize.Bytes(uint64(len(data))),
		int(math.Round(h.Quality()*100)), h.Scale())
	if !h.MetCap() {
		line += "  (cap missed: smallest possible)"
	}
	fmt.Println(line)
	return entry
}

// outputName maps a source path to its .webp output path, optionally
// embedding a short content hash before the extension.
func outputName(rel string, data []byte, withHash bool) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	if withHash {
		return fmt.Sprintf("%s.%s.webp", base, hasher.ContentHash(data, 8))
	}
	return base + ".webp"
}

func printConvertReport(rep *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             pixify convert complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := rep.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Printf("  Mode:        %s\n", rep.Mode)
	fmt.Printf("  Encoder:     %s\n", rep.Encoder)
	fmt.Printf("  Converted:   %d\n", s.Converted)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	if s.CapMissed > 0 {
		fmt.Printf("  Cap missed:  %d  (smallest attainable kept)\n", s.CapMissed)
	}
	fmt.Printf("  Input size:  %s\n", humanize.Bytes(uint64(s.TotalInputBytes)))
	fmt.Printf("  Output size: %s\n", humanize.Bytes(uint64(s.TotalOutputBytes)))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	var ok []report.Entry
	for _, e := range rep.Entries {
		if e.Error == "" {
			ok = append(ok, e)
		}
	}
	if len(ok) == 0 {
		return
	}
	sort.Slice(ok, func(i, j int) bool {
		return ok[i].InputSize > ok[j].InputSize
	})
	n := len(ok)
	if n > 5 {
		n = 5
	}
	fmt.Printf("  Top %d heaviest (original → converted):\n", n)
	for _, e := range ok[:n] {
		saved := float64(0)
		if e.InputSize > 0 {
			saved = (1 - float64(e.OutputSize)/float64(e.InputSize)) * 100
		}
		fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
			truncKey(e.Source, 40),
			humanize.Bytes(uint64(e.InputSize)),
			humanize.Bytes(uint64(e.OutputSize)),
			saved,
		)
	}
	fmt.Println()
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
