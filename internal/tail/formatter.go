package tail

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/encore/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
	err           error
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is
// reported by NewFormatter.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl == "" {
			return
		}
		t, err := template.New("format").Parse(tmpl)
		if err != nil {
			f.err = fmt.Errorf("invalid tail format: %w", err)
			return
		}
		f.template = t
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) (*Formatter, error) {
	f := &Formatter{
		showEmoji: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f, nil
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
	}

	if s := e.Current; s != nil {
		if t := subjectTrack(e); t != nil {
			data.ID = t.ID
			data.Title = t.Title
			data.Artist = t.Artist
		}
		data.Elapsed = core.FormatDuration(s.ElapsedDuration())
		data.Duration = core.FormatDuration(s.TotalDuration())
		data.Volume = volumePercent(s.Volume)
		data.Status = s.Status().String()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	ID        string
	Title     string
	Artist    string
	Elapsed   string
	Duration  string
	Volume    int
	Status    string
}

// subjectTrack is the track an event is about: the finished or cleared
// track for completion and clear events, the current one otherwise.
func subjectTrack(e Event) *core.Track {
	switch e.Type {
	case EventTrackClear:
		if e.Previous != nil {
			return e.Previous.Track
		}
		return nil
	}
	if e.Current != nil {
		return e.Current.Track
	}
	return nil
}

func eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := subjectTrack(e); t != nil {
			return "Now playing: " + t.DisplayName()
		}
		return "Track changed"

	case EventTrackReady:
		if e.Current != nil {
			return "Loaded (" + core.FormatDuration(e.Current.TotalDuration()) + ")"
		}
		return "Loaded"

	case EventTrackComplete:
		if t := subjectTrack(e); t != nil {
			return "Finished: " + t.DisplayName()
		}
		return "Track completed"

	case EventTrackClear:
		if t := subjectTrack(e); t != nil {
			return "Stopped: " + t.DisplayName()
		}
		return "Stopped"

	case EventPause:
		if e.Current != nil {
			return "Paused at " + core.FormatDuration(e.Current.ElapsedDuration())
		}
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventSeek:
		if e.Current != nil {
			return "Seeked to " + core.FormatDuration(e.Current.ElapsedDuration())
		}
		return "Seeked"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", volumePercent(e.Current.Volume))
		}
		return "Volume changed"

	default:
		return "Unknown event"
	}
}

func volumePercent(v float64) int {
	return int(math.Round(v * 100))
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackReady:
		return "💿"
	case EventTrackComplete:
		return "✅"
	case EventTrackClear:
		return "⏹️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventSeek:
		return "⏩"
	case EventVolumeChange:
		return "🔊"
	default:
		return "❓"
	}
}

// String returns the name of the event type.
func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackReady:
		return "track_ready"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackClear:
		return "track_clear"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventSeek:
		return "seek"
	case EventVolumeChange:
		return "volume_change"
	default:
		return "unknown"
	}
}
