package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors for one theme.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color
	Selected  lipgloss.Color
}

var (
	// Dark suits dark terminal backgrounds.
	Dark = Palette{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Accent:    lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#EF4444"), // Red
		Border:    lipgloss.Color("#4B5563"),
		Text:      lipgloss.Color("#F9FAFB"),
		TextMuted: lipgloss.Color("#9CA3AF"),
		TextDim:   lipgloss.Color("#6B7280"),
		Selected:  lipgloss.Color("#374151"),
	}

	// Light suits light terminal backgrounds.
	Light = Palette{
		Primary:   lipgloss.Color("#6D28D9"),
		Accent:    lipgloss.Color("#047857"),
		Warning:   lipgloss.Color("#B45309"),
		Error:     lipgloss.Color("#B91C1C"),
		Border:    lipgloss.Color("#D1D5DB"),
		Text:      lipgloss.Color("#111827"),
		TextMuted: lipgloss.Color("#4B5563"),
		TextDim:   lipgloss.Color("#6B7280"),
		Selected:  lipgloss.Color("#E5E7EB"),
	}
)

// Text and border styles, rebuilt by Use.
var (
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Label         lipgloss.Style
	Highlight     lipgloss.Style
	Muted         lipgloss.Style
	Dim           lipgloss.Style
	Playing       lipgloss.Style
	Paused        lipgloss.Style
	ErrorText     lipgloss.Style
	SelectedRow   lipgloss.Style
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style

	current Palette
)

func init() {
	Use(Dark)
}

// ForTheme returns the palette for a configured theme name. "auto" asks
// the terminal for its background.
func ForTheme(theme string) Palette {
	switch theme {
	case "light":
		return Light
	case "dark":
		return Dark
	default:
		if lipgloss.HasDarkBackground() {
			return Dark
		}
		return Light
	}
}

// Use rebuilds every style from p.
func Use(p Palette) {
	current = p

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	Subtitle = lipgloss.NewStyle().Foreground(p.TextMuted)
	Label = lipgloss.NewStyle().Foreground(p.TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	Dim = lipgloss.NewStyle().Foreground(p.TextDim)
	Playing = lipgloss.NewStyle().Foreground(p.Accent)
	Paused = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorText = lipgloss.NewStyle().Foreground(p.Error)
	SelectedRow = lipgloss.NewStyle().Background(p.Selected)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)
	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary)
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar creates a progress bar string
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)

	filledStyle := lipgloss.NewStyle().Foreground(current.Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(current.Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// VolumeBar renders a volume level in [0,1] as a short meter.
func VolumeBar(volume float64, width int) string {
	filled := min(max(int(volume*float64(width)+0.5), 0), width)
	return Playing.Render(strings.Repeat("▮", filled)) +
		Dim.Render(strings.Repeat("▯", width-filled))
}

// StatusIcon returns an icon for playback status
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// VolumeIcon returns a speaker icon for a volume level.
func VolumeIcon(volume float64) string {
	switch {
	case volume <= 0:
		return "🔇"
	case volume < 0.34:
		return "🔈"
	case volume < 0.67:
		return "🔉"
	default:
		return "🔊"
	}
}
