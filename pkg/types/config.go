package types

import "time"

// ConversionConfig holds settings for rendering and output placement.
type ConversionConfig struct {
	// Mode selects the Markdown style: heading or list. Empty means the
	// default heading mode.
	Mode string `json:"mode" yaml:"mode"`

	// OutDir is the directory for Markdown output. Empty means each file's
	// Markdown is written next to its source archive.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Force overwrites existing Markdown output instead of skipping it.
	Force bool `json:"force" yaml:"force"`
}

// BatchConfig holds settings for batch orchestration.
type BatchConfig struct {
	ConversionConfig `yaml:",inline"`

	// Jobs is the maximum number of archives converted at once (default 4).
	Jobs int `json:"jobs" yaml:"jobs"`

	// Timeout bounds a single file conversion (0 = no limit).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ReportPath, when set, receives a YAML report of the batch run.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// HistoryDir is the directory containing the history database
	// (default ".mindmark").
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxRuns is the default number of runs listed (default 20).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
