// Package playback owns the player state and keeps a media resource in
// step with it.
//
// A Controller is the single writer to its resource. Every operation and
// every resource event runs as one transition under the controller's lock:
// the state is updated, the resource is reconciled with it, the persisted
// snapshot is refreshed when the track or volume changed, and subscribers
// are then notified outside the lock in transition order.
package playback

import (
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/media"
	"github.com/tessro/encore/internal/store"
)

// applied records what the resource was last told.
type applied struct {
	loadSeq   uint64
	playing   bool
	volume    float64
	volumeSet bool
}

// Controller implements core.Player on top of a media.Resource.
type Controller struct {
	resource media.Resource
	store    store.Store
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   core.PlaybackState
	loadSeq uint64 // bumped on every track change
	applied applied
	failed  bool // the loaded source reported an error
	saved   core.Snapshot
	closed  bool

	unsubscribe func()

	observers  map[int]func(core.PlaybackState)
	order      []int
	nextID     int
	pending    []delivery
	delivering bool

	resumeAt float64 // position to restore once a retried source is ready
}

// delivery is a published state and the observers registered when it was
// published.
type delivery struct {
	state core.PlaybackState
	ids   []int
}

// New creates a controller, restoring the persisted snapshot from st.
// The restored track is loaded but not played.
func New(resource media.Resource, st store.Store, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		resource:  resource,
		store:     st,
		log:       o.logger,
		now:       o.now,
		observers: make(map[int]func(core.PlaybackState)),
	}

	snap, err := LoadSnapshot(st, o.defaultVolume)
	if err != nil {
		c.log.Warn("ignoring stored player state", "error", err)
	}
	c.saved = snap
	c.state = core.PlaybackState{Track: snap.Track, Volume: snap.Volume}
	if snap.Track != nil {
		c.loadSeq = 1
	}

	c.unsubscribe = resource.Subscribe(c.handleEvent)

	c.mu.Lock()
	c.reconcileLocked()
	c.mu.Unlock()

	c.log.Debug("player restored", "track", trackID(snap.Track), "volume", snap.Volume)
	return c
}

var _ core.Player = (*Controller)(nil)

// SelectTrack replaces the current track and starts playing it. A nil
// track clears playback.
func (c *Controller) SelectTrack(track *core.Track) {
	c.transition(func(s *core.PlaybackState) {
		s.Track = track
		s.IsPlaying = track != nil
		s.Elapsed = 0
		s.Duration = 0
		c.loadSeq++
		c.log.Debug("track selected", "track", trackID(track))
	})
}

// TogglePlay flips between playing and paused. It does nothing without a
// track.
func (c *Controller) TogglePlay() {
	c.transition(func(s *core.PlaybackState) {
		if s.Track != nil {
			s.IsPlaying = !s.IsPlaying
		}
	})
}

// SetPlaying forces the playing flag. It does nothing without a track.
func (c *Controller) SetPlaying(play bool) {
	c.transition(func(s *core.PlaybackState) {
		if s.Track != nil {
			s.IsPlaying = play
		}
	})
}

// Seek moves to target seconds, clamped to the known duration, and resumes
// playback. It does nothing until the duration is known. After a resource
// error the source is reloaded and the position applied once it is ready.
func (c *Controller) Seek(target float64) {
	c.transition(func(s *core.PlaybackState) {
		if !s.CanSeek() || math.IsNaN(target) {
			return
		}
		s.Elapsed = lo.Clamp(target, 0, s.Duration)
		s.IsPlaying = true
		// A failed source is reloaded by reconcile and resumes at Elapsed.
		if c.failed {
			return
		}
		if err := c.resource.SeekTo(s.Elapsed); err != nil {
			c.log.Warn("seek rejected by media resource", "target", s.Elapsed, "error", err)
		}
	})
}

// SetVolume sets the volume, clamped to [0,1].
func (c *Controller) SetVolume(volume float64) {
	c.transition(func(s *core.PlaybackState) {
		if math.IsNaN(volume) {
			return
		}
		s.Volume = lo.Clamp(volume, 0, 1)
	})
}

// State returns a copy of the current state.
func (c *Controller) State() core.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive the state after every change. fn runs
// outside the controller's lock and may call back into the controller.
func (c *Controller) Subscribe(fn func(core.PlaybackState)) (cancel func()) {
	_, cancel = c.Watch(fn)
	return cancel
}

// Watch registers fn like Subscribe and returns the current state. fn
// receives exactly the states published after it, so the returned state
// and the notifications together miss no transition.
func (c *Controller) Watch(fn func(core.PlaybackState)) (core.PlaybackState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.order = append(c.order, id)

	var once sync.Once
	return c.state, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers, id)
			c.order = lo.Without(c.order, id)
		})
	}
}

// Close detaches from and releases the media resource and drops all
// subscribers. Later operations are ignored.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.observers = make(map[int]func(core.PlaybackState))
	c.order = nil
	c.pending = nil
	unsubscribe := c.unsubscribe
	c.mu.Unlock()

	unsubscribe()
	return c.resource.Close()
}

// transition applies fn to the state, reconciles the resource and
// publishes the result.
func (c *Controller) transition(fn func(*core.PlaybackState)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	before := c.state
	fn(&c.state)
	c.reconcileLocked()
	c.publishLocked(before)
}

// publishLocked persists and notifies when the state changed, then
// releases the lock. Notifications queued by re-entrant calls from an
// observer are delivered by the outermost caller, preserving order.
func (c *Controller) publishLocked(before core.PlaybackState) {
	if !c.state.Equal(before) {
		c.persistLocked()
		c.pending = append(c.pending, delivery{state: c.state, ids: slices.Clone(c.order)})
	}

	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true

	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		observers := lo.FilterMap(next.ids, func(id int, _ int) (func(core.PlaybackState), bool) {
			fn, ok := c.observers[id]
			return fn, ok
		})
		c.mu.Unlock()

		for _, fn := range observers {
			fn(next.state)
		}

		c.mu.Lock()
	}

	c.delivering = false
	c.mu.Unlock()
}

func (c *Controller) persistLocked() {
	snap := c.state.Snapshot()
	if snap.Equal(c.saved) {
		return
	}
	if err := SaveSnapshot(c.store, snap, c.now()); err != nil {
		c.log.Warn("could not persist player state", "error", err)
		return
	}
	c.saved = snap
}

func trackID(t *core.Track) string {
	if t == nil {
		return ""
	}
	return t.ID
}
