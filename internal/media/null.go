package media

import "sync"

// Null is a Resource without audio output. It accepts every command and
// tracks what it was told, but never emits events, so duration stays
// unknown. Used when audio is disabled or unavailable in the build.
type Null struct {
	mu        sync.Mutex
	source    string
	playing   bool
	position  float64
	volume    float64
	listeners Listeners
}

// NewNull creates a silent resource.
func NewNull() *Null {
	return &Null{volume: 1}
}

func (n *Null) Load(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.source = url
	n.playing = false
	n.position = 0
}

func (n *Null) Unload() {
	n.Load("")
}

func (n *Null) Play() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.source == "" {
		return ErrNoSource
	}
	n.playing = true
	return nil
}

func (n *Null) Pause() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.playing = false
}

func (n *Null) SeekTo(seconds float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.position = seconds
	return nil
}

func (n *Null) SetVolume(volume float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = volume
}

func (n *Null) Position() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.position
}

func (n *Null) Duration() float64 { return 0 }

func (n *Null) Subscribe(l Listener) func() {
	return n.listeners.Add(l)
}

func (n *Null) Close() error {
	n.listeners.Clear()
	n.Unload()
	return nil
}

// Source returns the loaded URL.
func (n *Null) Source() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.source
}

// Playing reports whether Play was called since the last Pause or Load.
func (n *Null) Playing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playing
}

// Volume returns the last volume set.
func (n *Null) Volume() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.volume
}

var _ Resource = (*Null)(nil)
