package report

// Report is the JSON record of one conversion run.
type Report struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Mode        string  `json:"mode"`
	Encoder     string  `json:"encoder"`
	Entries     []Entry `json:"entries"`
	Stats       Stats   `json:"stats"`
}

// Entry describes the outcome for a single source file. Failed conversions
// carry Error and leave the output fields zero.
type Entry struct {
	Source     string  `json:"source"`
	Output     string  `json:"output,omitempty"`
	Width      int     `json:"width,omitempty"` // output dimensions
	Height     int     `json:"height,omitempty"`
	HasAlpha   bool    `json:"has_alpha,omitempty"`
	InputSize  int64   `json:"input_size"`
	OutputSize int64   `json:"output_size,omitempty"`
	Quality    float64 `json:"quality,omitempty"` // fractional, 0-1
	Scale      float64 `json:"scale,omitempty"`
	MetCap     bool    `json:"met_cap"`
	Hash       string  `json:"hash,omitempty"` // first 16 hex chars of xxhash64
	Error      string  `json:"error,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Converted        int   `json:"converted"`
	CapMissed        int   `json:"cap_missed"`
	Failed           int   `json:"failed"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1
