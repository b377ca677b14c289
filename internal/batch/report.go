// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mindmark/internal/outline"
	"github.com/pdiddy/mindmark/pkg/types"
)

// Report is the YAML document written for a batch run.
type Report struct {
	GeneratedAt time.Time    `yaml:"generated_at"`
	Mode        string       `yaml:"mode"`
	Converted   int          `yaml:"converted"`
	Skipped     int          `yaml:"skipped"`
	Failed      int          `yaml:"failed"`
	Elapsed     string       `yaml:"elapsed"`
	Files       []ReportFile `yaml:"files"`
}

// ReportFile is one per-archive row of the report. Durations are strings so
// the file stays readable without a nanosecond decoder.
type ReportFile struct {
	Path      string `yaml:"path"`
	Status    string `yaml:"status"`
	Output    string `yaml:"output,omitempty"`
	Duration  string `yaml:"duration"`
	ErrorKind string `yaml:"error_kind,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// WriteReport writes the batch outcome as a YAML report at path.
func WriteReport(path string, mode outline.Mode, result BatchResult) error {
	report := Report{
		GeneratedAt: time.Now().UTC(),
		Mode:        string(mode),
		Converted:   result.Converted,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		Elapsed:     result.Elapsed.Round(time.Millisecond).String(),
		Files:       make([]ReportFile, len(result.Files)),
	}
	for i, f := range result.Files {
		report.Files[i] = reportFile(f)
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func reportFile(f types.FileResult) ReportFile {
	return ReportFile{
		Path:      f.Path,
		Status:    string(f.Status),
		Output:    f.OutputPath,
		Duration:  f.Duration.Round(time.Millisecond).String(),
		ErrorKind: f.ErrorKind,
		Error:     f.Error,
	}
}
