package playback

// reconcileLocked brings the resource in line with the state: load the
// current source, then play or pause, then apply the volume.
func (c *Controller) reconcileLocked() {
	track := c.state.Track

	if c.applied.loadSeq != c.loadSeq {
		c.applied.loadSeq = c.loadSeq
		c.applied.playing = false
		c.failed = false
		c.resumeAt = 0
		if track == nil {
			c.resource.Unload()
		} else {
			c.resource.Load(track.MediaURL)
		}
	}

	// A failed source is reloaded when the user asks to play again.
	if c.failed && c.state.IsPlaying && track != nil {
		c.log.Info("retrying failed source", "track", track.ID, "position", c.state.Elapsed)
		c.failed = false
		c.resumeAt = c.state.Elapsed
		c.applied.playing = false
		c.resource.Load(track.MediaURL)
	}

	if track == nil {
		c.state.IsPlaying = false
	}

	if c.state.IsPlaying != c.applied.playing {
		if c.state.IsPlaying {
			if err := c.resource.Play(); err != nil {
				c.log.Warn("playback rejected by media resource", "track", track.ID, "error", err)
				c.state.IsPlaying = false
			} else {
				c.applied.playing = true
			}
		} else {
			c.resource.Pause()
			c.applied.playing = false
		}
	}

	if !c.applied.volumeSet || c.applied.volume != c.state.Volume {
		c.resource.SetVolume(c.state.Volume)
		c.applied.volume = c.state.Volume
		c.applied.volumeSet = true
	}
}
