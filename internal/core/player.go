package core

// Player defines the interface for local playback control.
type Player interface {
	// Track selection; nil clears playback
	SelectTrack(track *Track)

	// Playback control
	TogglePlay()
	SetPlaying(play bool)
	Seek(seconds float64)

	// Volume control, 0.0-1.0
	SetVolume(volume float64)

	// State queries
	State() PlaybackState

	// Subscribe registers fn to receive every new state. The returned
	// function removes the subscription.
	Subscribe(fn func(PlaybackState)) (cancel func())

	// Watch is Subscribe that also returns the state at the moment of
	// subscribing. fn receives every state after that one and none before.
	Watch(fn func(PlaybackState)) (current PlaybackState, cancel func())
}
