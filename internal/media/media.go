// Package media defines the audio resource the playback controller drives
// and the events such a resource reports back.
package media

import "errors"

var (
	// ErrNoSource is returned when playback is requested with nothing loaded.
	ErrNoSource = errors.New("no media source loaded")
	// ErrUnsupportedFormat is reported when a source cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported media format")
)

// EventType identifies a media lifecycle signal.
type EventType int

const (
	// EventMetadata fires once a loaded source knows its duration.
	EventMetadata EventType = iota
	// EventTimeUpdate fires at the resource's natural cadence while playing.
	EventTimeUpdate
	// EventEnded fires when playback reaches the end of the source.
	EventEnded
	// EventError fires when a source fails to load, decode or play.
	EventError
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventMetadata:
		return "metadata"
	case EventTimeUpdate:
		return "time_update"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a signal from a Resource. Source is the URL that was loaded
// when the event was produced.
type Event struct {
	Type     EventType
	Source   string
	Duration float64 // seconds, EventMetadata
	Position float64 // seconds, EventTimeUpdate
	Err      error   // EventError
}

// Listener receives events. Resources never call a listener while holding
// their own locks, and never from inside one of their command methods, so
// listeners may call back into the resource.
type Listener func(Event)

// Resource is a single audio output that plays one source at a time.
// Loading a new source abandons any in-flight load of the previous one;
// events from an abandoned source are never delivered.
type Resource interface {
	// Load replaces the current source and starts fetching it. Playback
	// stays paused until Play is called.
	Load(url string)
	// Unload stops playback and drops the current source.
	Unload()
	// Play starts or resumes output. An error means the resource refused
	// to start and remains paused.
	Play() error
	Pause()
	SeekTo(seconds float64) error
	// SetVolume sets the output level in [0,1].
	SetVolume(volume float64)
	Position() float64
	Duration() float64
	Subscribe(l Listener) (cancel func())
	Close() error
}
