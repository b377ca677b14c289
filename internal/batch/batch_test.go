// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mindmark/internal/outline"
	"github.com/pdiddy/mindmark/pkg/types"
)

const planPayload = `[
	{
		"title": "Plan",
		"rootTopic": {
			"title": "Root",
			"children": {"attached": [{"title": "A"}, {"title": "B"}]}
		}
	}
]`

// writeArchive creates a zip archive named name under dir with the given
// entries.
func writeArchive(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for entry, content := range entries {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func goodArchive(t *testing.T, dir, name string) string {
	t.Helper()
	return writeArchive(t, dir, name, map[string]string{"content.json": planPayload})
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	path := goodArchive(t, dir, "plan.xmind")

	got, err := Convert(path, outline.ModeList)
	if err != nil {
		t.Fatal(err)
	}
	if want := "- Root\n  - A\n  - B\n"; got != want {
		t.Errorf("Convert = %q, want %q", got, want)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		cfg  types.ConversionConfig
		want string
	}{
		{
			name: "next to source by default",
			path: filepath.Join("maps", "plan.xmind"),
			want: filepath.Join("maps", "plan.md"),
		},
		{
			name: "out dir override",
			path: filepath.Join("maps", "plan.xmind"),
			cfg:  types.ConversionConfig{OutDir: "out"},
			want: filepath.Join("out", "plan.md"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.path, tt.cfg); got != tt.want {
				t.Errorf("OutputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	t.Run("writes markdown", func(t *testing.T) {
		dir := t.TempDir()
		path := goodArchive(t, dir, "plan.xmind")

		res := ConvertFile(path, outline.ModeHeading, types.ConversionConfig{})
		if res.Status != types.StatusConverted {
			t.Fatalf("status = %q, want converted (%s)", res.Status, res.Error)
		}
		data, err := os.ReadFile(res.OutputPath)
		if err != nil {
			t.Fatal(err)
		}
		if want := "# Root\n\n## A\n\n## B\n\n"; string(data) != want {
			t.Errorf("output = %q, want %q", string(data), want)
		}
	})

	t.Run("skips existing output", func(t *testing.T) {
		dir := t.TempDir()
		path := goodArchive(t, dir, "plan.xmind")
		existing := filepath.Join(dir, "plan.md")
		if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}

		res := ConvertFile(path, outline.ModeHeading, types.ConversionConfig{})
		if res.Status != types.StatusSkipped {
			t.Fatalf("status = %q, want skipped", res.Status)
		}
		data, _ := os.ReadFile(existing)
		if string(data) != "old" {
			t.Errorf("existing output was overwritten: %q", string(data))
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		dir := t.TempDir()
		path := goodArchive(t, dir, "plan.xmind")
		existing := filepath.Join(dir, "plan.md")
		if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}

		res := ConvertFile(path, outline.ModeHeading, types.ConversionConfig{Force: true})
		if res.Status != types.StatusConverted {
			t.Fatalf("status = %q, want converted (%s)", res.Status, res.Error)
		}
		data, _ := os.ReadFile(existing)
		if string(data) == "old" {
			t.Error("output was not overwritten")
		}
	})

	t.Run("classifies failures", func(t *testing.T) {
		dir := t.TempDir()
		path := writeArchive(t, dir, "empty.xmind", map[string]string{"other": "x"})

		res := ConvertFile(path, outline.ModeHeading, types.ConversionConfig{})
		if res.Status != types.StatusFailed {
			t.Fatalf("status = %q, want failed", res.Status)
		}
		if res.ErrorKind != string(outline.KindMissingPayload) {
			t.Errorf("error kind = %q, want %q", res.ErrorKind, outline.KindMissingPayload)
		}
		if res.OutputPath != "" {
			t.Errorf("output path = %q, want empty", res.OutputPath)
		}
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		goodArchive(t, dir, "a.xmind"),
		writeArchive(t, dir, "bad.xmind", map[string]string{"content.json": "{broken"}),
		goodArchive(t, dir, "c.xmind"),
	}

	var out bytes.Buffer
	var seen []string
	result := Run(context.Background(), paths, outline.ModeList,
		types.BatchConfig{Jobs: 2}, &out,
		func(r types.FileResult) { seen = append(seen, r.Path) })

	if result.Converted != 2 || result.Failed != 1 || result.Skipped != 0 {
		t.Fatalf("summary = %d/%d/%d, want 2 converted, 0 skipped, 1 failed",
			result.Converted, result.Skipped, result.Failed)
	}
	if len(result.Files) != 3 {
		t.Fatalf("got %d file results, want 3", len(result.Files))
	}
	// Results stay in input order regardless of completion order.
	for i, p := range paths {
		if result.Files[i].Path != p {
			t.Errorf("Files[%d].Path = %q, want %q", i, result.Files[i].Path, p)
		}
	}
	if result.Files[1].Status != types.StatusFailed {
		t.Errorf("bad archive status = %q, want failed", result.Files[1].Status)
	}
	if len(seen) != 3 {
		t.Errorf("onDone called %d times, want 3", len(seen))
	}
	if !strings.Contains(out.String(), "Batch summary: 2 converted, 0 skipped, 1 failed (total: 3)") {
		t.Errorf("missing summary line in output: %q", out.String())
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{goodArchive(t, dir, "a.xmind"), goodArchive(t, dir, "b.xmind")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	result := Run(ctx, paths, outline.ModeList, types.BatchConfig{}, &out, nil)

	if result.Failed != len(paths) {
		t.Fatalf("failed = %d, want %d", result.Failed, len(paths))
	}
	for _, f := range result.Files {
		if f.ErrorKind != "cancelled" {
			t.Errorf("error kind = %q, want cancelled", f.ErrorKind)
		}
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		goodArchive(t, dir, "a.xmind"),
		writeArchive(t, dir, "bad.xmind", map[string]string{"other": "x"}),
	}

	var out bytes.Buffer
	result := Run(context.Background(), paths, outline.ModeHeading, types.BatchConfig{Jobs: 1}, &out, nil)

	reportPath := filepath.Join(dir, "reports", "run.yaml")
	if err := WriteReport(reportPath, outline.ModeHeading, result); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Mode != "heading" {
		t.Errorf("mode = %q, want heading", report.Mode)
	}
	if report.Converted != 1 || report.Failed != 1 {
		t.Errorf("report counts = %d converted, %d failed; want 1 and 1",
			report.Converted, report.Failed)
	}
	if len(report.Files) != 2 {
		t.Fatalf("got %d report files, want 2", len(report.Files))
	}
	if report.Files[1].ErrorKind != string(outline.KindMissingPayload) {
		t.Errorf("error kind = %q, want %q", report.Files[1].ErrorKind, outline.KindMissingPayload)
	}
}
