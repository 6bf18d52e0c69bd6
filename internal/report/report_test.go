package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestReportRoundtrip(t *testing.T) {
	r := New("size", "cwebp")
	r.Add(Entry{
		Source: "shots/hero.png", Output: "out/hero.webp",
		Width: 800, Height: 600, HasAlpha: true,
		InputSize: 240000, OutputSize: 51200,
		Quality: 0.82, Scale: 1.0, MetCap: true,
		Hash: "abcd1234abcd1234",
	})
	r.Add(Entry{
		Source: "shots/huge.png", Output: "out/huge.webp",
		Width: 120, Height: 90,
		InputSize: 900000, OutputSize: 44000,
		Quality: 0.35, Scale: 0.1, MetCap: false,
	})
	r.Add(Entry{
		Source: "shots/broken.png", InputSize: 9,
		Error: "decode: not a png",
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "pixify.report.json")
	if err := WriteJSON(r, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got.Version != SupportedReportVersion {
		t.Errorf("version: got %d, want %d", got.Version, SupportedReportVersion)
	}
	if got.Mode != "size" {
		t.Errorf("mode: got %q", got.Mode)
	}
	if got.Encoder != "cwebp" {
		t.Errorf("encoder: got %q", got.Encoder)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("entries: got %d", len(got.Entries))
	}
	if got.Entries[0].Hash != "abcd1234abcd1234" {
		t.Errorf("hash: got %q", got.Entries[0].Hash)
	}
	if !got.Entries[0].HasAlpha {
		t.Error("has_alpha lost in roundtrip")
	}
	if got.Entries[1].MetCap {
		t.Error("met_cap: second entry should have missed the cap")
	}

	// Stats computed on write.
	if got.Stats.Converted != 2 {
		t.Errorf("converted: got %d", got.Stats.Converted)
	}
	if got.Stats.Failed != 1 {
		t.Errorf("failed: got %d", got.Stats.Failed)
	}
	if got.Stats.CapMissed != 1 {
		t.Errorf("cap_missed: got %d", got.Stats.CapMissed)
	}
	if got.Stats.TotalInputBytes != 240000+900000+9 {
		t.Errorf("total_input_bytes: got %d", got.Stats.TotalInputBytes)
	}
	if got.Stats.TotalOutputBytes != 51200+44000 {
		t.Errorf("total_output_bytes: got %d", got.Stats.TotalOutputBytes)
	}
}

func TestReportVersion(t *testing.T) {
	r := New("auto", "native")
	if r.Version != SupportedReportVersion {
		t.Errorf("new report version: got %d, want %d", r.Version, SupportedReportVersion)
	}
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	// Simulate a future report with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"mode": "quality-size",
		"encoder": "cwebp",
		"future_field": "should be ignored",
		"entries": [
			{ "source": "a.png", "input_size": 10, "met_cap": true, "new_flag": true }
		],
		"stats": { "total_input_bytes": 10, "total_output_bytes": 0, "converted": 1, "cap_missed": 0, "failed": 0, "new_stat": 42 }
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.Mode != "quality-size" {
		t.Errorf("mode: got %q", r.Mode)
	}
	if len(r.Entries) != 1 || r.Entries[0].Source != "a.png" {
		t.Error("entries not parsed correctly")
	}
}

func TestReadJSON_Missing(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadJSON_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(path); err == nil {
		t.Fatal("expected parse error")
	}
}
