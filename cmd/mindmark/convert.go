// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mindmark/internal/batch"
	"github.com/pdiddy/mindmark/internal/history"
	"github.com/pdiddy/mindmark/internal/outline"
	"github.com/pdiddy/mindmark/internal/scan"
	"github.com/pdiddy/mindmark/internal/tui"
	"github.com/pdiddy/mindmark/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [archives...]",
	Short: "Convert mind-map archives to Markdown",
	Long: `Convert transforms mind-map archives into Markdown files. Pass archive
paths directly, or use --dir to discover archives under a directory and pick
the subset interactively (--all converts everything found).

The rendering mode is heading (nested # headings) by default; list renders
indented bullet items instead. Each archive converts independently; one
corrupted file never stops the rest of the batch.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := batchConfig(cmd)
	mode, err := outline.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	paths, cancelled, err := collectPaths(cmd, args)
	if err != nil {
		return err
	}
	if cancelled {
		fmt.Fprintln(os.Stderr, "cancelled")
		return nil
	}
	if len(paths) == 0 {
		return fmt.Errorf("nothing to convert: pass archive paths or --dir")
	}

	plain, _ := cmd.Flags().GetBool("plain")
	startedAt := time.Now()

	var result batch.BatchResult
	if plain {
		result = batch.Run(cmd.Context(), paths, mode, cfg, os.Stdout, nil)
	} else {
		result = runWithProgress(cmd, paths, mode, cfg)
	}

	recordHistory(startedAt, mode, result)

	if cfg.ReportPath != "" {
		if err := batch.WriteReport(cfg.ReportPath, mode, result); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", cfg.ReportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// collectPaths merges explicit archive arguments with directory discovery.
// The cancelled return value is true when the user quit the picker.
func collectPaths(cmd *cobra.Command, args []string) (paths []string, cancelled bool, err error) {
	paths = append(paths, args...)

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return paths, false, nil
	}

	found, err := scan.Discover(dir)
	if err != nil {
		return nil, false, err
	}
	if len(found) == 0 {
		return nil, false, fmt.Errorf("no convertible archives under %s", dir)
	}

	all, _ := cmd.Flags().GetBool("all")
	noInput, _ := cmd.Flags().GetBool("no-input")
	if all || noInput {
		return append(paths, found...), false, nil
	}

	picked, err := tui.PickArchives(found)
	if errors.Is(err, tui.ErrCancelled) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return append(paths, picked...), false, nil
}

// runWithProgress runs the batch in a background goroutine while the
// progress display owns the terminal, then prints the result table.
func runWithProgress(cmd *cobra.Command, paths []string, mode outline.Mode, cfg types.BatchConfig) batch.BatchResult {
	events := make(chan tui.Event, len(paths))
	resultCh := make(chan batch.BatchResult, 1)

	go func() {
		done := 0
		resultCh <- batch.Run(cmd.Context(), paths, mode, cfg, io.Discard,
			func(r types.FileResult) {
				done++ // onDone is serialized by the batch
				events <- tui.Event{Result: r, Done: done, Total: len(paths)}
			})
		close(events)
	}()

	if err := tui.RunProgress(events, len(paths)); err != nil {
		// The display failed (no TTY, for instance); the batch finishes
		// regardless, drain so the feeder cannot block.
		for range events {
		}
		fmt.Fprintf(os.Stderr, "warning: progress display unavailable: %v\n", err)
	}
	result := <-resultCh

	fmt.Println()
	fmt.Print(tui.RenderTable(result.Files))
	fmt.Printf("\n%d converted, %d skipped, %d failed (total: %d) in %s\n",
		result.Converted, result.Skipped, result.Failed, result.Total(),
		result.Elapsed.Round(time.Millisecond))
	return result
}

// recordHistory stores the run outcome; a broken history store only warns,
// it never fails the conversion.
func recordHistory(startedAt time.Time, mode outline.Mode, result batch.BatchResult) {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening history store: %v\n", err)
		return
	}
	defer store.Close()

	run := history.Run{
		StartedAt: startedAt,
		Mode:      string(mode),
		Converted: result.Converted,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Elapsed:   result.Elapsed,
	}
	if _, err := store.RecordRun(context.Background(), run, result.Files); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
}

// batchConfig merges convert flags with the config file; flags win.
func batchConfig(cmd *cobra.Command) types.BatchConfig {
	mode, _ := cmd.Flags().GetString("mode")
	if mode == "" {
		mode = viper.GetString("conversion.mode")
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = viper.GetString("conversion.out_dir")
	}
	force, _ := cmd.Flags().GetBool("force")

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs == 0 {
		jobs = viper.GetInt("batch.jobs")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("batch.timeout")
	}
	reportPath, _ := cmd.Flags().GetString("report")

	return types.BatchConfig{
		ConversionConfig: types.ConversionConfig{
			Mode:   mode,
			OutDir: outDir,
			Force:  force,
		},
		Jobs:       jobs,
		Timeout:    timeout,
		ReportPath: reportPath,
	}
}

func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{
		HistoryDir: viper.GetString("history.dir"),
		MaxRuns:    viper.GetInt("history.max_runs"),
	}
}

func init() {
	convertCmd.Flags().String("mode", "", "rendering mode: heading or list (default: heading)")
	convertCmd.Flags().String("dir", "", "discover archives under this directory")
	convertCmd.Flags().Bool("all", false, "convert every discovered archive without prompting")
	convertCmd.Flags().String("out-dir", "", "directory for Markdown output (default: next to each archive)")
	convertCmd.Flags().Int("jobs", 0, "maximum concurrent conversions (default 4)")
	convertCmd.Flags().Bool("force", false, "overwrite existing Markdown output")
	convertCmd.Flags().Duration("timeout", 0, "per-file conversion timeout (0 = none)")
	convertCmd.Flags().String("report", "", "write a YAML batch report to this path")
	convertCmd.Flags().Bool("no-input", false, "never prompt; implies --all for --dir")
	convertCmd.Flags().Bool("plain", false, "plain line output instead of the progress display")

	rootCmd.AddCommand(convertCmd)
}
