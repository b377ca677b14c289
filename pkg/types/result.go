// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileStatus indicates the outcome of converting one archive.
type FileStatus string

const (
	StatusConverted FileStatus = "converted"
	StatusSkipped   FileStatus = "skipped"
	StatusFailed    FileStatus = "failed"
)

// FileResult records the outcome of a single archive conversion.
type FileResult struct {
	// Path is the source archive path.
	Path string `json:"path" yaml:"path"`

	// OutputPath is where the Markdown was written (empty on failure).
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Status is the conversion outcome.
	Status FileStatus `json:"status" yaml:"status"`

	// Duration is how long the conversion took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// ErrorKind buckets the failure for reporting (empty on success).
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	// Error is the failure message (empty on success).
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the conversion failed.
func (r FileResult) Failed() bool {
	return r.Status == StatusFailed
}
