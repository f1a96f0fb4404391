package playback

import (
	"math"

	"github.com/tessro/encore/internal/media"
)

// handleEvent folds a resource event into the state. Events for a source
// other than the current track's are stale and dropped, as is everything
// that arrives with no track selected.
func (c *Controller) handleEvent(e media.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	track := c.state.Track
	if track == nil || e.Source != track.MediaURL {
		c.mu.Unlock()
		c.log.Debug("dropping stale media event", "event", e.Type.String(), "source", e.Source)
		return
	}

	before := c.state
	s := &c.state

	switch e.Type {
	case media.EventMetadata:
		if e.Duration > 0 && !math.IsInf(e.Duration, 0) {
			s.Duration = math.Floor(e.Duration)
			s.Elapsed = min(s.Elapsed, s.Duration)
			if c.resumeAt > 0 {
				c.resumeAt = 0
				if err := c.resource.SeekTo(s.Elapsed); err != nil {
					c.log.Warn("could not restore position after reload", "track", track.ID, "error", err)
					s.Elapsed = 0
				}
			}
		} else {
			c.resumeAt = 0
			s.Duration = 0
			c.log.Warn("media reported unusable duration", "track", track.ID, "duration", e.Duration)
		}

	case media.EventTimeUpdate:
		pos := e.Position
		if math.IsNaN(pos) || pos < 0 {
			pos = 0
		}
		if s.Duration > 0 {
			pos = min(pos, s.Duration)
		}
		s.Elapsed = pos

	case media.EventEnded:
		s.IsPlaying = false
		s.Elapsed = 0
		c.applied.playing = false

	case media.EventError:
		c.log.Warn("media resource failed", "track", track.ID, "source", e.Source, "error", e.Err)
		s.IsPlaying = false
		c.applied.playing = false
		c.failed = true
	}

	c.reconcileLocked()
	c.publishLocked(before)
}
