package types

// CorrectionConfig holds settings for the duration correction stage.
type CorrectionConfig struct {
	// Enabled turns correction on. When false, raw durations pass through
	// with a warning.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// ReferencePath is the trusted reference workbook whose duration-hours
	// column is reconciled against the raw durations. Required when Enabled.
	ReferencePath string `json:"reference_path,omitempty" yaml:"reference_path,omitempty"`

	// AssumeFactor pins a fixed scale factor instead of deriving one from
	// the reference workbook. Zero means derive per project.
	AssumeFactor float64 `json:"assume_factor,omitempty" yaml:"assume_factor,omitempty"`

	// ReportPath is where the per-task audit report is written as YAML.
	// Empty skips the report file.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	// OutputPath is the destination workbook. Empty derives it from the
	// input path by swapping the extension to .xlsx.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Correction configures duration correction for this run.
	Correction CorrectionConfig `json:"correction" yaml:"correction"`

	// Verbose enables the project summary and per-task correction examples.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ChartConfig holds settings for the chart stage.
type ChartConfig struct {
	// OutputPath is the destination HTML file (default gantt.html).
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Title is the chart heading.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Sheet names the workbook sheet to read. Empty auto-detects the
	// corrected sheet when present, falling back to Tasks.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`

	// Resources adds a resource-cost section below the timeline.
	Resources bool `json:"resources" yaml:"resources"`
}

// HistoryConfig holds settings for the conversion run log.
type HistoryConfig struct {
	// Path is the SQLite database file for the run log.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Disabled skips recording runs.
	Disabled bool `json:"disabled" yaml:"disabled"`
}
