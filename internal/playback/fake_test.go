package playback

import (
	"sync"

	"github.com/tessro/encore/internal/media"
)

// fakeResource records commands and lets tests emit events on demand.
type fakeResource struct {
	mu        sync.Mutex
	calls     []string
	source    string
	playing   bool
	volume    float64
	position  float64
	playErr   error
	closed    bool
	listeners media.Listeners
}

func (f *fakeResource) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeResource) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("load " + url)
	f.source = url
	f.playing = false
	f.position = 0
}

func (f *fakeResource) Unload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("unload")
	f.source = ""
	f.playing = false
}

func (f *fakeResource) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("play")
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakeResource) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("pause")
	f.playing = false
}

func (f *fakeResource) SeekTo(seconds float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("seek")
	f.position = seconds
	return nil
}

func (f *fakeResource) SetVolume(volume float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("volume")
	f.volume = volume
}

func (f *fakeResource) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeResource) Duration() float64 { return 0 }

func (f *fakeResource) Subscribe(l media.Listener) func() {
	return f.listeners.Add(l)
}

func (f *fakeResource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close")
	f.closed = true
	return nil
}

func (f *fakeResource) emit(e media.Event) {
	f.listeners.Emit(e)
}

func (f *fakeResource) setPlayErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playErr = err
}

func (f *fakeResource) snapshot() (source string, playing bool, volume, position float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source, f.playing, f.volume, f.position
}

func (f *fakeResource) takeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.calls
	f.calls = nil
	return calls
}

var _ media.Resource = (*fakeResource)(nil)
