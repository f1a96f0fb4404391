package playback

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/store"
)

// StorageKey is the store key holding the persisted snapshot.
const StorageKey = "player"

const snapshotVersion = 1

type snapshotRecord struct {
	Version      int         `json:"version"`
	CurrentTrack *core.Track `json:"current_track"`
	Volume       *float64    `json:"volume,omitempty"`
	SavedAt      time.Time   `json:"saved_at"`
}

func encodeSnapshot(s core.Snapshot, now time.Time) (string, error) {
	volume := s.Volume
	data, err := json.Marshal(snapshotRecord{
		Version:      snapshotVersion,
		CurrentTrack: s.Track,
		Volume:       &volume,
		SavedAt:      now.UTC(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeSnapshot parses a stored snapshot. A missing volume falls back to
// defaultVolume; an out-of-range one is clamped.
func decodeSnapshot(raw string, defaultVolume float64) (core.Snapshot, error) {
	var rec snapshotRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return core.Snapshot{}, fmt.Errorf("malformed snapshot: %w", err)
	}
	if rec.Version > snapshotVersion {
		return core.Snapshot{}, fmt.Errorf("unsupported snapshot version %d", rec.Version)
	}

	volume := defaultVolume
	if rec.Volume != nil && !math.IsNaN(*rec.Volume) {
		volume = *rec.Volume
	}
	return core.Snapshot{
		Track:  rec.CurrentTrack,
		Volume: lo.Clamp(volume, 0, 1),
	}, nil
}

// LoadSnapshot reads the persisted snapshot from st. When nothing is stored
// it returns the defaults and no error. A read failure or malformed record
// returns the defaults together with the error.
func LoadSnapshot(st store.Store, defaultVolume float64) (core.Snapshot, error) {
	defaults := core.Snapshot{Volume: lo.Clamp(defaultVolume, 0, 1)}

	raw, ok, err := st.Get(StorageKey)
	if err != nil {
		return defaults, fmt.Errorf("read snapshot: %w", err)
	}
	if !ok {
		return defaults, nil
	}

	snap, err := decodeSnapshot(raw, defaults.Volume)
	if err != nil {
		return defaults, err
	}
	return snap, nil
}

// SaveSnapshot writes s to st.
func SaveSnapshot(st store.Store, s core.Snapshot, now time.Time) error {
	raw, err := encodeSnapshot(s, now)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := st.Set(StorageKey, raw); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
