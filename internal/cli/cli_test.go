package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWriter(&buf, "ID", "TITLE")
	table.Row("1", "Night Drive")
	table.Row("22", "Dawn")
	table.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "ID  TITLE" {
		t.Errorf("header = %q, want %q", lines[0], "ID  TITLE")
	}
	if lines[2] != "22  Dawn" {
		t.Errorf("row = %q, want %q", lines[2], "22  Dawn")
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 8, "a lon..."},
		{"abcdef", 2, "ab"},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{-5, "0:00"},
		{0, "0:00"},
		{65, "1:05"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestLocalTrack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "night drive.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Run("catalog id", func(t *testing.T) {
		track, ok, err := localTrack("42")
		if err != nil || ok || track != nil {
			t.Errorf("localTrack(42) = %v, %v, %v; want nil, false, nil", track, ok, err)
		}
	})

	t.Run("url", func(t *testing.T) {
		track, ok, err := localTrack("https://cdn.example.com/audio/song.mp3?sig=1")
		if err != nil || !ok {
			t.Fatalf("localTrack() = %v, %v; want ok", ok, err)
		}
		if track.Title != "song" {
			t.Errorf("Title = %q, want %q", track.Title, "song")
		}
		if track.MediaURL != "https://cdn.example.com/audio/song.mp3?sig=1" {
			t.Errorf("MediaURL = %q", track.MediaURL)
		}
	})

	t.Run("file path", func(t *testing.T) {
		track, ok, err := localTrack(path)
		if err != nil || !ok {
			t.Fatalf("localTrack() = %v, %v; want ok", ok, err)
		}
		if track.Title != "night drive" {
			t.Errorf("Title = %q, want %q", track.Title, "night drive")
		}
		if track.MediaURL != path {
			t.Errorf("MediaURL = %q, want %q", track.MediaURL, path)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := localTrack(filepath.Join(dir, "missing.mp3"))
		if err == nil {
			t.Error("localTrack() error = nil, want error for missing file")
		}
	})
}

func TestUploadRequests(t *testing.T) {
	reqs, err := uploadRequests([]string{"a.mp3", "b.wav"}, "", "demo", "Lofi")
	if err != nil {
		t.Fatalf("uploadRequests() error = %v", err)
	}
	if len(reqs) != 2 || reqs[1].Path != "b.wav" || reqs[1].Genre != "Lofi" || reqs[0].Description != "demo" {
		t.Errorf("uploadRequests() = %+v", reqs)
	}

	if _, err := uploadRequests([]string{"a.mp3", "b.wav"}, "Same", "", ""); err == nil {
		t.Error("uploadRequests() error = nil, want error for --title with several files")
	}

	reqs, err = uploadRequests([]string{"a.mp3"}, "Night Drive", "", "")
	if err != nil || reqs[0].Title != "Night Drive" {
		t.Errorf("uploadRequests() = %+v, %v", reqs, err)
	}
}
