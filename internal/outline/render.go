// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"strings"
)

// Mode selects the Markdown style produced by Render.
type Mode string

const (
	// ModeHeading renders topics as nested # headings.
	ModeHeading Mode = "heading"
	// ModeList renders topics as indented - list items.
	ModeList Mode = "list"
)

// ParseMode maps a mode string to a Mode. The empty string selects the
// default heading mode; any other unrecognized value is rejected rather than
// silently defaulted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "":
		return ModeHeading, nil
	case string(ModeHeading):
		return ModeHeading, nil
	case string(ModeList):
		return ModeList, nil
	}
	return "", fmt.Errorf("unknown rendering mode %q: %w", s, ErrInvalidFormat)
}

// Markdown has no heading level past 6; deeper topics clamp.
const maxHeadingLevel = 6

// sheetSeparator joins consecutive sheets as visually independent documents.
const sheetSeparator = "\n---\n\n"

// Render converts a document to Markdown in the given mode. A document with
// no sheets fails with ErrInvalidFormat; that is the one structural check,
// everything deeper was normalized at decode time.
//
// Sheet titles appear as level-1 headings only in multi-sheet documents,
// where they disambiguate sheets; a single-sheet document starts directly at
// its root topic.
func Render(doc Document, mode Mode) (string, error) {
	if mode != ModeHeading && mode != ModeList {
		return "", fmt.Errorf("unknown rendering mode %q: %w", mode, ErrInvalidFormat)
	}
	if len(doc) == 0 {
		return "", fmt.Errorf("document has no sheets: %w", ErrInvalidFormat)
	}

	var b strings.Builder
	multi := len(doc) > 1
	for i, sheet := range doc {
		if i > 0 {
			b.WriteString(sheetSeparator)
		}
		level := 1
		if multi && sheet.Title != "" {
			b.WriteString("# ")
			b.WriteString(sheet.Title)
			b.WriteString("\n\n")
			level = 2
		}
		if sheet.Root != nil {
			renderTopic(&b, sheet.Root, level, mode)
		}
	}
	return b.String(), nil
}

type frame struct {
	topic *Topic
	level int
}

// renderTopic walks the topic tree depth-first in pre-order: a parent's line
// always precedes all of its descendants'. The traversal uses an explicit
// stack because tree depth is input-controlled and must not be able to
// exhaust the goroutine stack.
func renderTopic(b *strings.Builder, root *Topic, level int, mode Mode) {
	stack := []frame{{root, level}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		writeLine(b, f.topic.Title, f.level, mode)

		// Push children in reverse so the first child renders next.
		for i := len(f.topic.Children) - 1; i >= 0; i-- {
			if c := f.topic.Children[i]; c != nil {
				stack = append(stack, frame{c, f.level + 1})
			}
		}
	}
}

func writeLine(b *strings.Builder, title string, level int, mode Mode) {
	switch mode {
	case ModeHeading:
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		b.WriteString(strings.Repeat("#", level))
		b.WriteByte(' ')
		b.WriteString(title)
		b.WriteString("\n\n")
	case ModeList:
		b.WriteString(strings.Repeat("  ", level-1))
		b.WriteString("- ")
		b.WriteString(title)
		b.WriteByte('\n')
	}
}
