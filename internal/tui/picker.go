// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui implements the interactive terminal surfaces: the archive
// picker, the batch progress bar, and the result table.
// Implements: prd005-interactive; docs/ARCHITECTURE § Interactive Surfaces.
package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the picker without
// confirming a selection.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
)

// pickerModel is the bubbletea model for the multi-select archive list.
// Everything starts selected so a bare enter converts the whole set.
type pickerModel struct {
	paths     []string
	selected  map[int]bool
	cursor    int
	confirmed bool
	cancelled bool
}

func newPickerModel(paths []string) pickerModel {
	selected := make(map[int]bool, len(paths))
	for i := range paths {
		selected[i] = true
	}
	return pickerModel{paths: paths, selected: selected}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.paths)-1 {
			m.cursor++
		}
	case " ", "space":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		for i := range m.paths {
			m.selected[i] = true
		}
	case "n":
		for i := range m.paths {
			m.selected[i] = false
		}
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Select archives to convert (%d/%d)",
		m.countSelected(), len(m.paths))))
	b.WriteString("\n\n")

	for i, path := range m.paths {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		mark := dimStyle.Render("[ ]")
		line := dimStyle.Render(path)
		if m.selected[i] {
			mark = selectedStyle.Render("[x]")
			line = selectedStyle.Render(path)
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, mark, line)
	}

	b.WriteString(footerStyle.Render(
		keyStyle.Render("space") + dimStyle.Render(" toggle  ") +
			keyStyle.Render("a") + dimStyle.Render(" all  ") +
			keyStyle.Render("n") + dimStyle.Render(" none  ") +
			keyStyle.Render("enter") + dimStyle.Render(" convert  ") +
			keyStyle.Render("q") + dimStyle.Render(" cancel")))
	b.WriteString("\n")
	return b.String()
}

func (m pickerModel) countSelected() int {
	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}
	return count
}

// picked returns the selected paths in display order.
func (m pickerModel) picked() []string {
	var paths []string
	for i, path := range m.paths {
		if m.selected[i] {
			paths = append(paths, path)
		}
	}
	return paths
}

// PickArchives presents an interactive multi-select list over the discovered
// archives and returns the chosen subset. Cancelling returns ErrCancelled.
func PickArchives(paths []string) ([]string, error) {
	p := tea.NewProgram(newPickerModel(paths))
	out, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	final := out.(pickerModel)
	if final.cancelled {
		return nil, ErrCancelled
	}
	return final.picked(), nil
}
