package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mindmark/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List convertible archives under a directory",
	Long: `Scan walks a directory (default: the current one) and lists every
mind-map archive it would offer for conversion. Hidden directories are
skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		paths, err := scan.Discover(dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		fmt.Printf("\n%d archive(s)\n", len(paths))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
