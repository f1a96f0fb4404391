package core

import (
	"fmt"
	"math"
	"time"
)

// DefaultVolume is used when no volume has been persisted.
const DefaultVolume = 0.5

// Status is the coarse playback state derived from a PlaybackState.
type Status int

const (
	StatusEmpty Status = iota
	StatusPaused
	StatusPlaying
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// PlaybackState represents the current playback state.
// Elapsed and Duration are in seconds; Duration is 0 until the media
// resource reports it.
type PlaybackState struct {
	Track     *Track  `json:"track"`
	IsPlaying bool    `json:"is_playing"`
	Elapsed   float64 `json:"elapsed"`
	Duration  float64 `json:"duration"`
	Volume    float64 `json:"volume"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// Status returns the state machine position for this state.
func (s *PlaybackState) Status() Status {
	switch {
	case !s.HasTrack():
		return StatusEmpty
	case s.IsPlaying:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

// CanSeek returns true once the duration is known.
func (s *PlaybackState) CanSeek() bool {
	return s.HasTrack() && s.Duration > 0
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Duration <= 0 {
		return 0
	}
	return math.Min(s.Elapsed/s.Duration*100, 100)
}

// ElapsedDuration returns Elapsed as a time.Duration.
func (s *PlaybackState) ElapsedDuration() time.Duration {
	return Seconds(s.Elapsed)
}

// TotalDuration returns Duration as a time.Duration.
func (s *PlaybackState) TotalDuration() time.Duration {
	return Seconds(s.Duration)
}

// Equal reports whether two states are identical, comparing tracks by value.
func (s PlaybackState) Equal(other PlaybackState) bool {
	return s.IsPlaying == other.IsPlaying &&
		s.Elapsed == other.Elapsed &&
		s.Duration == other.Duration &&
		s.Volume == other.Volume &&
		s.Track.Equal(other.Track)
}

// Snapshot is the subset of PlaybackState that survives restarts.
type Snapshot struct {
	Track  *Track
	Volume float64
}

// Snapshot returns the persistable part of the state.
func (s *PlaybackState) Snapshot() Snapshot {
	return Snapshot{Track: s.Track, Volume: s.Volume}
}

// Equal reports whether two snapshots would persist identically.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Volume == other.Volume && s.Track.Equal(other.Track)
}

// Seconds converts fractional seconds to a time.Duration.
func Seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
