package tail

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tessro/encore/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackReady
	EventTrackComplete
	EventTrackClear
	EventPause
	EventResume
	EventSeek
	EventVolumeChange
)

// seekThreshold is the smallest position jump reported as a seek.
// Regular time updates arrive well inside it.
const seekThreshold = 2.0

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.PlaybackState
	Current   *core.PlaybackState
}

// Watcher subscribes to a player and turns state changes into events.
type Watcher struct {
	player core.Player
	events chan Event
	now    func() time.Time

	mu     sync.Mutex
	prev   *core.PlaybackState
	closed bool
}

// NewWatcher creates a new state watcher.
func NewWatcher(player core.Player) *Watcher {
	return &Watcher{
		player: player,
		events: make(chan Event, 64),
		now:    time.Now,
	}
}

// Events returns the channel of playback events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start subscribes to the player and blocks until ctx is done. The state
// at subscription is the baseline; a track already present is reported as
// a track change.
func (w *Watcher) Start(ctx context.Context) error {
	// Notifications block on w.mu until the baseline is recorded.
	w.mu.Lock()
	initial, cancel := w.player.Watch(w.observe)
	w.prev = &initial
	if initial.HasTrack() {
		w.sendLocked(Event{Type: EventTrackChange, Timestamp: w.now(), Current: &initial})
	}
	w.mu.Unlock()

	<-ctx.Done()
	cancel()

	w.mu.Lock()
	w.closed = true
	close(w.events)
	w.mu.Unlock()

	return ctx.Err()
}

func (w *Watcher) observe(state core.PlaybackState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	curr := state
	for _, e := range diffStates(w.prev, &curr, w.now()) {
		w.sendLocked(e)
	}
	w.prev = &curr
}

func (w *Watcher) sendLocked(e Event) {
	select {
	case w.events <- e:
	default:
		// Drop event if channel is full
	}
}

// diffStates compares two states and returns detected events.
func diffStates(prev, curr *core.PlaybackState, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	event := func(t EventType) Event {
		return Event{Type: t, Timestamp: now, Previous: prev, Current: curr}
	}

	if prev == nil {
		if curr.HasTrack() {
			return []Event{event(EventTrackChange)}
		}
		return nil
	}

	var events []Event

	if trackChanged(prev, curr) {
		if curr.HasTrack() {
			events = append(events, event(EventTrackChange))
		} else {
			events = append(events, event(EventTrackClear))
		}
		// Play state follows the new track; nothing else to report.
		if prev.Volume != curr.Volume {
			events = append(events, event(EventVolumeChange))
		}
		return events
	}

	if prev.Duration == 0 && curr.Duration > 0 {
		events = append(events, event(EventTrackReady))
	}

	completed := Completed(prev, curr)
	switch {
	case completed:
		events = append(events, event(EventTrackComplete))
	case prev.IsPlaying && !curr.IsPlaying:
		events = append(events, event(EventPause))
	case !prev.IsPlaying && curr.IsPlaying:
		events = append(events, event(EventResume))
	}

	if !completed && curr.HasTrack() && math.Abs(curr.Elapsed-prev.Elapsed) >= seekThreshold {
		events = append(events, event(EventSeek))
	}

	if prev.Volume != curr.Volume {
		events = append(events, event(EventVolumeChange))
	}

	return events
}

// trackChanged returns true if a different track was selected.
func trackChanged(prev, curr *core.PlaybackState) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.ID != curr.Track.ID || prev.Track.MediaURL != curr.Track.MediaURL
}

// Completed reports whether the step from prev to curr is playback
// stopping and rewinding after reaching the end of the track.
func Completed(prev, curr *core.PlaybackState) bool {
	if !prev.IsPlaying || curr.IsPlaying || curr.Elapsed != 0 || prev.Duration == 0 {
		return false
	}
	// Consider completed if progress was >= 95% of duration
	return prev.Elapsed >= prev.Duration*0.95
}
