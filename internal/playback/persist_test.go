package playback

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/store"
)

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTrack  string
		wantVolume float64
		wantErr    bool
	}{
		{"full", `{"version":1,"current_track":{"id":"t1","media_url":"https://x/1.mp3"},"volume":0.8}`, "t1", 0.8, false},
		{"null track", `{"version":1,"current_track":null,"volume":0.2}`, "", 0.2, false},
		{"missing volume", `{"version":1,"current_track":null}`, "", 0.5, false},
		{"volume too high", `{"version":1,"volume":3}`, "", 1, false},
		{"volume negative", `{"version":1,"volume":-1}`, "", 0, false},
		{"no version", `{"volume":0.4}`, "", 0.4, false},
		{"future version", `{"version":9,"volume":0.4}`, "", 0, true},
		{"not json", `player`, "", 0, true},
		{"wrong track type", `{"version":1,"current_track":"t1"}`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := decodeSnapshot(tt.raw, 0.5)
			if tt.wantErr {
				if err == nil {
					t.Errorf("decodeSnapshot() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeSnapshot() error = %v", err)
			}
			gotTrack := ""
			if snap.Track != nil {
				gotTrack = snap.Track.ID
			}
			if gotTrack != tt.wantTrack {
				t.Errorf("Track.ID = %q, want %q", gotTrack, tt.wantTrack)
			}
			if snap.Volume != tt.wantVolume {
				t.Errorf("Volume = %v, want %v", snap.Volume, tt.wantVolume)
			}
		})
	}
}

func TestEncodeSnapshotFormat(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, err := encodeSnapshot(core.Snapshot{Track: &core.Track{ID: "t1", Title: "One"}, Volume: 0.25}, now)
	if err != nil {
		t.Fatalf("encodeSnapshot() error = %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"version", "current_track", "volume", "saved_at"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("encoded snapshot missing %q: %s", key, raw)
		}
	}
	if !strings.Contains(raw, `"saved_at":"2025-03-01T12:00:00Z"`) {
		t.Errorf("saved_at not RFC3339 UTC: %s", raw)
	}

	empty, err := encodeSnapshot(core.Snapshot{Volume: 0}, now)
	if err != nil {
		t.Fatalf("encodeSnapshot() error = %v", err)
	}
	if !strings.Contains(empty, `"current_track":null`) || !strings.Contains(empty, `"volume":0`) {
		t.Errorf("empty snapshot = %s, want explicit null track and zero volume", empty)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	st := store.NewFile(filepath.Join(t.TempDir(), "state.json"))

	want := core.Snapshot{Track: &core.Track{ID: "t9", Title: "Nine", MediaURL: "file:///tmp/9.wav"}, Volume: 0.35}
	if err := SaveSnapshot(st, want, time.Now()); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	got, err := LoadSnapshot(st, 0.5)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("LoadSnapshot() = %+v, want %+v", got, want)
	}
}

type failingStore struct{ store.Store }

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("permission denied") }

func TestLoadSnapshotDefaults(t *testing.T) {
	got, err := LoadSnapshot(store.NewMemory(), 0.6)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if got.Track != nil || got.Volume != 0.6 {
		t.Errorf("LoadSnapshot() = %+v, want defaults", got)
	}

	got, err = LoadSnapshot(failingStore{store.NewMemory()}, 0.5)
	if err == nil {
		t.Error("LoadSnapshot() error = nil, want read error")
	}
	if got.Track != nil || got.Volume != 0.5 {
		t.Errorf("LoadSnapshot() = %+v, want defaults on error", got)
	}
}
