// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs archive-to-Markdown conversions over sets of files.
// Implements: prd003-batch (R1-R4); docs/ARCHITECTURE § Batch Orchestration.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/mindmark/internal/outline"
	"github.com/pdiddy/mindmark/pkg/types"
)

// defaultJobs bounds concurrent conversions when the config does not.
const defaultJobs = 4

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Elapsed   time.Duration

	// Files holds one result per input path, in input order.
	Files []types.FileResult
}

// Total returns the total number of archives processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any archives failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Convert runs the conversion pipeline for a single archive and returns the
// Markdown text. It composes extraction and rendering and performs no writes,
// so it is safe to call concurrently for independent paths.
func Convert(path string, mode outline.Mode) (string, error) {
	doc, err := outline.Extract(path)
	if err != nil {
		return "", err
	}
	return outline.Render(doc, mode)
}

// OutputPath derives the Markdown destination for an archive: the archive
// base name with a .md extension, under cfg.OutDir or next to the source.
func OutputPath(archivePath string, cfg types.ConversionConfig) string {
	base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(archivePath)
	}
	return filepath.Join(dir, base+".md")
}

// ConvertFile converts one archive and writes the Markdown to its derived
// output path. If the output already exists and cfg.Force is unset, the file
// is skipped. The write goes through a temp file and rename so a failed run
// never leaves a truncated output behind.
func ConvertFile(path string, mode outline.Mode, cfg types.ConversionConfig) types.FileResult {
	start := time.Now()
	res := types.FileResult{Path: path}

	outPath := OutputPath(path, cfg)
	if !cfg.Force {
		if _, err := os.Stat(outPath); err == nil {
			res.Status = types.StatusSkipped
			res.OutputPath = outPath
			res.Duration = time.Since(start)
			return res
		}
	}

	markdown, err := Convert(path, mode)
	if err != nil {
		return failed(res, start, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return failed(res, start, err)
	}
	if err := writeFileAtomic(outPath, []byte(markdown)); err != nil {
		return failed(res, start, err)
	}

	res.Status = types.StatusConverted
	res.OutputPath = outPath
	res.Duration = time.Since(start)
	return res
}

func failed(res types.FileResult, start time.Time, err error) types.FileResult {
	res.Status = types.StatusFailed
	res.Duration = time.Since(start)
	res.ErrorKind = string(outline.Classify(err))
	res.Error = err.Error()
	return res
}

// writeFileAtomic writes data to a temp file in the destination directory and
// renames it into place.
func writeFileAtomic(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".mindmark-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Run converts the given archives with at most cfg.Jobs running at once,
// printing per-file status lines to w and returning a summary. Failures are
// isolated per file: one corrupted archive never aborts the rest of the
// batch. When onDone is non-nil it is called once per finished file, in
// completion order, from a single goroutine.
func Run(ctx context.Context, paths []string, mode outline.Mode, cfg types.BatchConfig, w io.Writer, onDone func(types.FileResult)) BatchResult {
	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}

	start := time.Now()
	files := make([]types.FileResult, len(paths))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	var mu sync.Mutex // serializes status output and onDone

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := convertOne(ctx, path, mode, cfg)
			files[i] = res

			mu.Lock()
			printStatus(w, res)
			if onDone != nil {
				onDone(res)
			}
			mu.Unlock()
		}(i, path)
	}
	wg.Wait()

	result := BatchResult{Files: files, Elapsed: time.Since(start)}
	for _, res := range files {
		switch res.Status {
		case types.StatusConverted:
			result.Converted++
		case types.StatusSkipped:
			result.Skipped++
		case types.StatusFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d) in %s\n",
		result.Converted, result.Skipped, result.Failed, result.Total(),
		result.Elapsed.Round(time.Millisecond))
	return result
}

// convertOne applies the per-file timeout and cancellation around
// ConvertFile. The conversion itself has no cancellation points, so a
// timed-out conversion is abandoned rather than interrupted; if it later
// finishes anyway, the output it wrote is complete and valid.
func convertOne(ctx context.Context, path string, mode outline.Mode, cfg types.BatchConfig) types.FileResult {
	if err := ctx.Err(); err != nil {
		return types.FileResult{
			Path:      path,
			Status:    types.StatusFailed,
			ErrorKind: "cancelled",
			Error:     err.Error(),
		}
	}
	if cfg.Timeout <= 0 {
		return ConvertFile(path, mode, cfg.ConversionConfig)
	}

	done := make(chan types.FileResult, 1)
	go func() {
		done <- ConvertFile(path, mode, cfg.ConversionConfig)
	}()

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()
	select {
	case res := <-done:
		return res
	case <-timer.C:
		return types.FileResult{
			Path:      path,
			Status:    types.StatusFailed,
			Duration:  cfg.Timeout,
			ErrorKind: "timeout",
			Error:     fmt.Sprintf("conversion exceeded %s", cfg.Timeout),
		}
	case <-ctx.Done():
		return types.FileResult{
			Path:      path,
			Status:    types.StatusFailed,
			ErrorKind: "cancelled",
			Error:     ctx.Err().Error(),
		}
	}
}

func printStatus(w io.Writer, res types.FileResult) {
	base := filepath.Base(res.Path)
	switch res.Status {
	case types.StatusConverted:
		fmt.Fprintf(w, "converted: %s (%s)\n", base, res.Duration.Round(time.Millisecond))
	case types.StatusSkipped:
		fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
	case types.StatusFailed:
		fmt.Fprintf(w, "failed:  %s (%s)\n", base, res.Error)
	}
}
