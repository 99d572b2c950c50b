package tui

import (
	"fmt"
	"strings"

	"awsps/internal/selector"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultVisibleRows = 10
	// header, prompt, counter, blank line and help
	chromeRows = 5
)

// renderFrame draws one selector frame. The help line is omitted when h is nil.
func renderFrame(m selector.RenderModel, h *help.Model, keys keyMap) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(m.Title))
	if m.Account != "" && m.Stage == selector.RoleSearch {
		b.WriteString(AccountBadgeStyle.Render("[" + m.Account + "]"))
	}
	b.WriteString("\n")

	b.WriteString(PromptStyle.Render("› "))
	b.WriteString(m.Query)
	b.WriteString(CursorStyle.Render("▌"))
	b.WriteString("\n")

	b.WriteString(CounterStyle.Render(fmt.Sprintf("%d/%d", len(m.Options), m.Total)))
	b.WriteString("\n")

	if len(m.Options) == 0 {
		b.WriteString(MutedStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	start, end := visibleWindow(len(m.Options), m.Cursor, visibleRows(m.Height))
	for i := start; i < end; i++ {
		b.WriteString(renderOption(m.Options[i], i == m.Cursor, m.Width))
		b.WriteString("\n")
	}

	if h != nil {
		b.WriteString("\n")
		b.WriteString(h.View(keys))
	}
	return b.String()
}

func visibleRows(height int) int {
	if height <= 0 {
		return defaultVisibleRows
	}
	if rows := height - chromeRows; rows > 0 {
		return rows
	}
	return 1
}

// visibleWindow returns the [start, end) slice of n options that keeps the
// cursor on screen with at most rows lines.
func visibleWindow(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	return start, start + rows
}

func renderOption(o selector.Option, selected bool, width int) string {
	prefix := "  "
	base := lipgloss.NewStyle()
	if selected {
		prefix = CursorStyle.Render("▸ ")
		base = SelectedStyle
	}

	line := prefix + highlight(o.Label, o.Matched, base, MatchStyle)
	if o.Detail != "" {
		line += "  " + MutedStyle.Render(o.Detail)
	}
	if width > 0 && lipgloss.Width(line) > width {
		line = prefix + highlight(o.Label, o.Matched, base, MatchStyle)
	}
	return line
}

// highlight renders s with the runes at positions in match and the rest in base.
func highlight(s string, positions []int, base, match lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(s)
	}

	hit := make(map[int]bool, len(positions))
	for _, p := range positions {
		hit[p] = true
	}

	var b strings.Builder
	var run []rune
	matching := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		if matching {
			b.WriteString(match.Render(string(run)))
		} else {
			b.WriteString(base.Render(string(run)))
		}
		run = run[:0]
	}

	for i, r := range []rune(s) {
		if hit[i] != matching {
			flush()
			matching = hit[i]
		}
		run = append(run, r)
	}
	flush()
	return b.String()
}
