package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/tui/styles"
)

// NowPlaying displays the current track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state core.PlaybackState, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !state.HasTrack() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.Muted.Render("Nothing selected"),
			styles.Dim.Render("Press / to search"),
			"",
			n.renderVolume(state.Volume),
		)
	} else {
		content = n.renderTrack(state, width-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (n *NowPlaying) renderTrack(state core.PlaybackState, width int) string {
	track := state.Track

	icon := styles.StatusIcon(state.IsPlaying)
	title := styles.Title.Width(max(width-4, 1)).Render(truncate(track.Title, width-4))
	artist := styles.Subtitle.Render(truncate(track.Artist, width-2))

	cover := ""
	if track.CoverURL != "" {
		cover = styles.Dim.Render(truncate(track.CoverURL, width-2))
	}

	progressWidth := max(width-14, 10) // room for the times on either side
	progressBar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	total := "--:--"
	if state.Duration > 0 {
		total = core.FormatDuration(state.TotalDuration())
	}
	progress := fmt.Sprintf("%s %s %s", core.FormatDuration(state.ElapsedDuration()), progressBar, total)

	status := ""
	if state.IsPlaying && state.Duration == 0 {
		status = styles.Dim.Render("Loading…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+cover,
		"",
		progress,
		status,
		n.renderVolume(state.Volume),
	)
}

func (n *NowPlaying) renderVolume(volume float64) string {
	return fmt.Sprintf("%s %s %s",
		styles.VolumeIcon(volume),
		styles.VolumeBar(volume, 10),
		styles.Muted.Render(fmt.Sprintf("%d%%", int(math.Round(volume*100)))))
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
