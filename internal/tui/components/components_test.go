package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/encore/internal/core"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"héllo", 3, "hé…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestNowPlayingRender(t *testing.T) {
	n := NewNowPlaying()

	empty := n.Render(core.PlaybackState{Volume: 0.5}, 60, 12, true)
	if !strings.Contains(empty, "Nothing selected") || !strings.Contains(empty, "50%") {
		t.Errorf("empty render missing placeholder or volume:\n%s", empty)
	}

	state := core.PlaybackState{
		Track:     &core.Track{ID: "1", Title: "Night Drive", Artist: "neon"},
		IsPlaying: true,
		Elapsed:   65,
		Duration:  200,
		Volume:    0.8,
	}
	out := n.Render(state, 60, 12, false)
	for _, want := range []string{"Night Drive", "neon", "1:05", "3:20", "80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	state.Duration = 0
	state.Elapsed = 0
	out = n.Render(state, 60, 12, false)
	if !strings.Contains(out, "--:--") || !strings.Contains(out, "Loading") {
		t.Errorf("render before metadata missing placeholders:\n%s", out)
	}
}

func TestHistoryRender(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []HistoryEntry{
		{Track: &core.Track{Title: "Second", Artist: "B"}, PlayedAt: now.Add(-3 * time.Minute)},
		{Track: &core.Track{Title: "First", Artist: "A"}, PlayedAt: now.Add(-2 * time.Hour), Finished: true},
	}

	h := NewHistory()
	out := h.Render(entries, 60, 10, true, now)
	for _, want := range []string{"B - Second", "3 minutes ago", "A - First", "2 hours ago", "✓"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	h.SelectNext(len(entries))
	h.SelectNext(len(entries))
	if h.Selected() != 1 {
		t.Errorf("Selected() = %d, want 1", h.Selected())
	}
	h.SelectPrev()
	h.SelectPrev()
	if h.Selected() != 0 {
		t.Errorf("Selected() = %d, want 0", h.Selected())
	}
}
