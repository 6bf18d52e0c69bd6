package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty report with defaults.
func New(mode, encoder string) *Report {
	return &Report{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Mode:        mode,
		Encoder:     encoder,
	}
}

// Add appends one entry.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// ComputeStats recalculates aggregate statistics from entries.
func (r *Report) ComputeStats() {
	var s Stats
	for _, e := range r.Entries {
		s.TotalInputBytes += e.InputSize
		if e.Error != "" {
			s.Failed++
			continue
		}
		s.Converted++
		s.TotalOutputBytes += e.OutputSize
		if !e.MetCap {
			s.CapMissed++
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file with stable ordering.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a previously written report.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &r, nil
}
