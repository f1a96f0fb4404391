package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/tui/styles"
)

// HistoryEntry is a track selected during this session.
type HistoryEntry struct {
	Track    *core.Track
	PlayedAt time.Time
	Finished bool
}

// History displays the tracks selected this session, newest first.
type History struct {
	cursor int
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// SelectNext moves the cursor down.
func (h *History) SelectNext(total int) {
	if h.cursor < total-1 {
		h.cursor++
	}
}

// SelectPrev moves the cursor up.
func (h *History) SelectPrev() {
	if h.cursor > 0 {
		h.cursor--
	}
}

// Selected returns the cursor position.
func (h *History) Selected() int {
	return h.cursor
}

// Reset moves the cursor to the newest entry.
func (h *History) Reset() {
	h.cursor = 0
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool, now time.Time) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4, focused, now)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int, focused bool, now time.Time) string {
	lines := make([]string, 0, maxLines)

	// Keep the cursor on screen.
	start := 0
	if h.cursor >= maxLines && maxLines > 0 {
		start = h.cursor - maxLines + 1
	}

	for i := start; i < len(entries) && len(lines) < maxLines; i++ {
		entry := entries[i]
		if entry.Track == nil {
			continue
		}

		ago := humanize.RelTime(entry.PlayedAt, now, "ago", "from now")

		icon := "♪"
		if entry.Finished {
			icon = "✓"
		}

		// icon, spaces and a gap before the time
		available := max(width-len(ago)-4, 8)
		info := truncate(entry.Track.DisplayName(), available)
		padding := max(width-2-len([]rune(info))-len(ago), 1)

		line := fmt.Sprintf("%s %s%*s%s", styles.Dim.Render(icon), info, padding, "", styles.Dim.Render(ago))
		if focused && i == h.cursor {
			line = styles.SelectedRow.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
