// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/mindmark/pkg/types"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const maxPathWidth = 48

// RenderTable formats per-file outcomes as an aligned, styled table.
func RenderTable(results []types.FileResult) string {
	pathWidth := len("File")
	for _, r := range results {
		if n := len(truncate(r.Path, maxPathWidth)); n > pathWidth {
			pathWidth = n
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s  %-9s  %8s  %s",
		pathWidth, "File", "Status", "Time", "Output")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", pathWidth+30))
	b.WriteString("\n")

	for _, r := range results {
		detail := r.OutputPath
		status := string(r.Status)
		style := okStyle
		switch r.Status {
		case types.StatusSkipped:
			style = skippedStyle
		case types.StatusFailed:
			style = failedStyle
			detail = r.Error
		}
		fmt.Fprintf(&b, "%-*s  %s  %8s  %s\n",
			pathWidth, truncate(r.Path, maxPathWidth),
			style.Render(fmt.Sprintf("%-9s", status)),
			r.Duration.Round(time.Millisecond),
			truncate(detail, maxPathWidth))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
