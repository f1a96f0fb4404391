package tail

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/tessro/encore/internal/core"
)

var (
	songA = &core.Track{ID: "a", Title: "Alpha", Artist: "Ann", MediaURL: "https://cdn.example.com/a.mp3"}
	songB = &core.Track{ID: "b", Title: "Bravo", Artist: "Bo", MediaURL: "https://cdn.example.com/b.mp3"}
)

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestDiffStates(t *testing.T) {
	playing := core.PlaybackState{Track: songA, IsPlaying: true, Elapsed: 30, Duration: 120, Volume: 0.5}

	with := func(mut func(*core.PlaybackState)) *core.PlaybackState {
		s := playing
		mut(&s)
		return &s
	}

	tests := []struct {
		name string
		prev *core.PlaybackState
		curr *core.PlaybackState
		want []EventType
	}{
		{"first state with track", nil, &playing, []EventType{EventTrackChange}},
		{"first state empty", nil, &core.PlaybackState{Volume: 0.5}, nil},
		{"time update", &playing, with(func(s *core.PlaybackState) { s.Elapsed = 30.25 }), nil},
		{"pause", &playing, with(func(s *core.PlaybackState) { s.IsPlaying = false }), []EventType{EventPause}},
		{"resume", with(func(s *core.PlaybackState) { s.IsPlaying = false }), &playing, []EventType{EventResume}},
		{"seek", &playing, with(func(s *core.PlaybackState) { s.Elapsed = 90 }), []EventType{EventSeek}},
		{"seek while paused resumes", with(func(s *core.PlaybackState) { s.IsPlaying = false }), with(func(s *core.PlaybackState) { s.Elapsed = 5 }), []EventType{EventResume, EventSeek}},
		{"volume", &playing, with(func(s *core.PlaybackState) { s.Volume = 0.8 }), []EventType{EventVolumeChange}},
		{"ready", with(func(s *core.PlaybackState) { s.Duration = 0; s.Elapsed = 0 }), with(func(s *core.PlaybackState) { s.Elapsed = 0 }), []EventType{EventTrackReady}},
		{
			"complete",
			with(func(s *core.PlaybackState) { s.Elapsed = 119 }),
			with(func(s *core.PlaybackState) { s.Elapsed = 0; s.IsPlaying = false }),
			[]EventType{EventTrackComplete},
		},
		{
			"stop early is a pause and seek",
			&playing,
			with(func(s *core.PlaybackState) { s.Elapsed = 0; s.IsPlaying = false }),
			[]EventType{EventPause, EventSeek},
		},
		{"track change", &playing, &core.PlaybackState{Track: songB, IsPlaying: true, Volume: 0.5}, []EventType{EventTrackChange}},
		{"clear", &playing, &core.PlaybackState{Volume: 0.5}, []EventType{EventTrackClear}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types(diffStates(tt.prev, tt.curr, time.Now()))
			if !slices.Equal(got, tt.want) {
				t.Errorf("diffStates() = %v, want %v", got, tt.want)
			}
		})
	}
}

// fakePlayer is a minimal core.Player that notifies synchronously.
type fakePlayer struct {
	mu        sync.Mutex
	state     core.PlaybackState
	observers []func(core.PlaybackState)
}

func (p *fakePlayer) set(mut func(*core.PlaybackState)) {
	p.mu.Lock()
	mut(&p.state)
	s := p.state
	obs := slices.Clone(p.observers)
	p.mu.Unlock()
	for _, fn := range obs {
		fn(s)
	}
}

func (p *fakePlayer) SelectTrack(t *core.Track) {
	p.set(func(s *core.PlaybackState) { s.Track = t; s.IsPlaying = t != nil; s.Elapsed = 0; s.Duration = 0 })
}
func (p *fakePlayer) TogglePlay()          { p.set(func(s *core.PlaybackState) { s.IsPlaying = !s.IsPlaying }) }
func (p *fakePlayer) SetPlaying(play bool) { p.set(func(s *core.PlaybackState) { s.IsPlaying = play }) }
func (p *fakePlayer) Seek(sec float64)     { p.set(func(s *core.PlaybackState) { s.Elapsed = sec }) }
func (p *fakePlayer) SetVolume(v float64)  { p.set(func(s *core.PlaybackState) { s.Volume = v }) }

func (p *fakePlayer) State() core.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *fakePlayer) Subscribe(fn func(core.PlaybackState)) func() {
	_, cancel := p.Watch(fn)
	return cancel
}

func (p *fakePlayer) Watch(fn func(core.PlaybackState)) (core.PlaybackState, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
	idx := len(p.observers) - 1
	return p.state, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.observers[idx] = func(core.PlaybackState) {}
	}
}

func (p *fakePlayer) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.observers)
}

func TestWatcher(t *testing.T) {
	player := &fakePlayer{state: core.PlaybackState{Volume: 0.5}}
	w := NewWatcher(player)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for player.subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	player.SelectTrack(songA)
	player.SetVolume(0.7)
	player.TogglePlay()
	player.SelectTrack(nil)

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Start() error = %v, want %v", err, context.Canceled)
	}

	var got []EventType
	for e := range w.Events() {
		got = append(got, e.Type)
	}
	want := []EventType{EventTrackChange, EventVolumeChange, EventPause, EventTrackClear}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}

	// Late notifications after Start returns are ignored.
	player.SetVolume(0.1)
}

func TestWatcherReportsInitialTrack(t *testing.T) {
	player := &fakePlayer{state: core.PlaybackState{Track: songA, Volume: 0.5}}
	w := NewWatcher(player)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Start(ctx)

	var got []EventType
	for e := range w.Events() {
		got = append(got, e.Type)
	}
	if !slices.Equal(got, []EventType{EventTrackChange}) {
		t.Errorf("events = %v, want [track_change]", got)
	}
}
