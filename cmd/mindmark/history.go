// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mindmark/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past conversion runs",
	Long: `History lists recent batch conversion runs from the local SQLite store.
Use --files with a run ID to see that run's per-file outcomes, or --clear to
drop all stored history.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	if runID, _ := cmd.Flags().GetInt64("files"); runID != 0 {
		return printRunFiles(ctx, store, runID)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if !cmd.Flags().Changed("limit") {
		if v := historyConfig().MaxRuns; v > 0 {
			limit = v
		}
	}
	runs, err := store.Runs(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-8s  %9s  %7s  %6s  %8s\n",
		"ID", "Started", "Mode", "Converted", "Skipped", "Failed", "Elapsed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 76))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-8s  %9d  %7d  %6d  %8s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Mode,
			r.Converted, r.Skipped, r.Failed, r.Elapsed.Round(time.Millisecond))
	}
	return nil
}

func printRunFiles(ctx context.Context, store *history.Store, runID int64) error {
	files, err := store.Files(ctx, runID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No files recorded for run %d.\n", runID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-9s  %8s  %s\n", "Status", "Time", "File")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
	for _, f := range files {
		detail := f.OutputPath
		if f.Error != "" {
			detail = f.Error
		}
		fmt.Fprintf(os.Stdout, "%-9s  %8s  %s\n", f.Status, f.Duration.Round(time.Millisecond), f.Path)
		if detail != "" {
			fmt.Fprintf(os.Stdout, "%-9s  %8s  -> %s\n", "", "", detail)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().Int64("files", 0, "show per-file outcomes for a run ID")
	historyCmd.Flags().Bool("clear", false, "delete all stored history")

	rootCmd.AddCommand(historyCmd)
}
