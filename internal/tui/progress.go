// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdiddy/mindmark/pkg/types"
)

// Event is emitted once per finished file during a batch run.
type Event struct {
	Result types.FileResult
	Done   int
	Total  int
}

// doneMsg signals that the event channel was closed: the batch is finished.
type doneMsg struct{}

// progressModel renders a progress bar over batch events. The bar is
// stateless (ViewAs), so there is no animation frame plumbing.
type progressModel struct {
	bar    progress.Model
	events <-chan Event
	total  int
	done   int
	failed int
	last   string
}

func newProgressModel(events <-chan Event, total int) progressModel {
	return progressModel{
		bar:    progress.New(progress.WithGradient("#00ffff", "#00ff00"), progress.WithWidth(40)),
		events: events,
		total:  total,
	}
}

// waitForEvent blocks on the next batch event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return ev
	}
}

func (m progressModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Event:
		m.done = msg.Done
		m.last = msg.Result.Path
		if msg.Result.Failed() {
			m.failed++
		}
		return m, waitForEvent(m.events)
	case doneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		// The batch keeps running; ctrl+c only abandons the display.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Converting archives"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(percent))
	fmt.Fprintf(&b, "\n\n%s", dimStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)))
	if m.failed > 0 {
		fmt.Fprintf(&b, " %s", failedStyle.Render(fmt.Sprintf("(%d failed)", m.failed)))
	}
	if m.last != "" {
		fmt.Fprintf(&b, "\n%s", dimStyle.Render("last: "+filepath.Base(m.last)))
	}
	b.WriteString("\n")
	return b.String()
}

// RunProgress drives the progress display until events closes. It blocks the
// calling goroutine; the batch itself runs elsewhere and feeds events.
func RunProgress(events <-chan Event, total int) error {
	p := tea.NewProgram(newProgressModel(events, total))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running progress display: %w", err)
	}
	return nil
}
