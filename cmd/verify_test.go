package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ASHU191/Pixify-Convert/internal/report"
)

func writeOutputFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func containsErr(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func statsTestReport(t *testing.T) (*report.Report, string) {
	t.Helper()
	dir := t.TempDir()
	writeOutputFile(t, dir, "a.webp", 64)
	writeOutputFile(t, dir, "b.webp", 32)

	rep := report.New("size", "native")
	rep.Add(report.Entry{
		Source: "a.png", Output: "a.webp",
		Width: 8, Height: 8,
		InputSize: 100, OutputSize: 64,
		Quality: 0.9, Scale: 1, MetCap: true,
	})
	rep.Add(report.Entry{
		Source: "b.png", Output: "b.webp",
		Width: 4, Height: 4,
		InputSize: 80, OutputSize: 32,
		Quality: 0.02, Scale: 0.5, MetCap: false,
	})
	rep.Add(report.Entry{
		Source: "c.png", InputSize: 60, Error: "not a png",
	})
	rep.ComputeStats()
	return rep, dir
}

func TestVerifyReport_CleanReport(t *testing.T) {
	rep, dir := statsTestReport(t)
	if errs := verifyReport(rep, dir, false); len(errs) != 0 {
		t.Fatalf("clean report flagged: %v", errs)
	}
}

func TestVerifyReport_RecountsAllStats(t *testing.T) {
	rep, dir := statsTestReport(t)

	rep.Stats.CapMissed = 0
	rep.Stats.TotalInputBytes = 1
	rep.Stats.TotalOutputBytes = 2

	errs := verifyReport(rep, dir, false)
	for _, want := range []string{
		"cap_missed mismatch",
		"total_input_bytes mismatch",
		"total_output_bytes mismatch",
	} {
		if !containsErr(errs, want) {
			t.Errorf("missing %q in %v", want, errs)
		}
	}
	if containsErr(errs, "converted mismatch") || containsErr(errs, "failed mismatch") {
		t.Errorf("untampered counters flagged: %v", errs)
	}
}

func TestVerifyReport_TamperedCounters(t *testing.T) {
	rep, dir := statsTestReport(t)

	rep.Stats.Converted = 5
	rep.Stats.Failed = 0

	errs := verifyReport(rep, dir, false)
	if !containsErr(errs, "converted mismatch") {
		t.Errorf("missing converted mismatch in %v", errs)
	}
	if !containsErr(errs, "failed mismatch") {
		t.Errorf("missing failed mismatch in %v", errs)
	}
}
