package beepaudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"

	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/media"
)

// fakeOutput stands in for the speaker. Streamers handed to Play are
// queued on played; the test reads them with drain.
type fakeOutput struct {
	mu      sync.Mutex
	initErr error
	played  chan beep.Streamer
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{played: make(chan beep.Streamer, 4)}
}

func (o *fakeOutput) Init() error                 { return o.initErr }
func (o *fakeOutput) SampleRate() beep.SampleRate { return 8000 }
func (o *fakeOutput) Play(s beep.Streamer)        { o.played <- s }
func (o *fakeOutput) Lock()                       { o.mu.Lock() }
func (o *fakeOutput) Unlock()                     { o.mu.Unlock() }

// drain reads s to the end the way the speaker would.
func (o *fakeOutput) drain(s beep.Streamer) {
	buf := make([][2]float64, 512)
	for {
		o.Lock()
		_, ok := s.Stream(buf)
		o.Unlock()
		if !ok {
			return
		}
	}
}

func (o *fakeOutput) next(t *testing.T) beep.Streamer {
	t.Helper()
	select {
	case s := <-o.played:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("nothing was queued on the output")
		return nil
	}
}

func (o *fakeOutput) idle(t *testing.T) {
	t.Helper()
	select {
	case <-o.played:
		t.Fatal("output received a stream, want none")
	default:
	}
}

func newTestEngine(t *testing.T, out output, client *http.Client) (*engine, <-chan media.Event) {
	t.Helper()
	s := defaultSettings()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.timeUpdate = time.Hour
	if client != nil {
		s.client = client
	}
	e := newEngine(out, s)
	t.Cleanup(func() { _ = e.Close() })

	events := make(chan media.Event, 32)
	e.Subscribe(func(ev media.Event) { events <- ev })
	return e, events
}

func waitEvent(t *testing.T, events <-chan media.Event, want media.EventType) media.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event", want)
		}
	}
}

func noEvents(t *testing.T, events <-chan media.Event) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected %s event for %s", ev.Type, ev.Source)
	default:
	}
}

func writeWAV(t *testing.T, name string, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, pcmWAV(8000, samples), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// heldServer serves a WAV only after release is called.
func heldServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Write(pcmWAV(8000, 800))
	}))
	t.Cleanup(server.Close)
	var once sync.Once
	done := func() { once.Do(func() { close(release) }) }
	t.Cleanup(done)
	return server, done
}

func TestEnginePlayWhileLoading(t *testing.T) {
	server, release := heldServer(t)
	out := newFakeOutput()
	e, events := newTestEngine(t, out, server.Client())

	src := server.URL + "/song.wav"
	e.Load(src)
	if err := e.Play(); err != nil {
		t.Fatalf("Play() while loading error = %v, want nil", err)
	}
	out.idle(t)

	release()
	ev := waitEvent(t, events, media.EventMetadata)
	if ev.Source != src || math.Abs(ev.Duration-0.1) > 1e-9 {
		t.Errorf("metadata = %+v, want %s with 0.1s", ev, src)
	}
	out.next(t)
}

func TestEnginePauseWhileLoadingDropsPlay(t *testing.T) {
	server, release := heldServer(t)
	out := newFakeOutput()
	e, events := newTestEngine(t, out, server.Client())

	e.Load(server.URL + "/song.wav")
	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	e.Pause()

	release()
	waitEvent(t, events, media.EventMetadata)
	out.idle(t)
}

func TestEngineDeferredPlayOutputFailure(t *testing.T) {
	server, release := heldServer(t)
	out := newFakeOutput()
	out.initErr = fmt.Errorf("%w: no device", apperrors.ErrAudioUnavailable)
	e, events := newTestEngine(t, out, server.Client())

	e.Load(server.URL + "/song.wav")
	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	release()
	waitEvent(t, events, media.EventMetadata)
	ev := waitEvent(t, events, media.EventError)
	if !errors.Is(ev.Err, apperrors.ErrAudioUnavailable) {
		t.Errorf("error event = %v, want %v", ev.Err, apperrors.ErrAudioUnavailable)
	}

	if err := e.Play(); !errors.Is(err, apperrors.ErrAudioUnavailable) {
		t.Errorf("Play() after load error = %v, want %v", err, apperrors.ErrAudioUnavailable)
	}
	out.idle(t)
}

func TestEngineDropsStaleGeneration(t *testing.T) {
	out := newFakeOutput()
	e, events := newTestEngine(t, out, nil)

	first := writeWAV(t, "first.wav", 800)
	second := writeWAV(t, "second.wav", 1600)

	e.Load(first)
	waitEvent(t, events, media.EventMetadata)

	e.mu.Lock()
	stale := e.generation
	e.mu.Unlock()

	e.Load(second)
	waitEvent(t, events, media.EventMetadata)

	// Work finishing for the abandoned source must not surface.
	e.load(context.Background(), stale, first)
	e.load(context.Background(), stale, filepath.Join(t.TempDir(), "missing.wav"))
	e.finished(stale)
	noEvents(t, events)

	if got := e.Duration(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Duration() = %v, want 0.2 from the current source", got)
	}
}

func TestEngineLoadError(t *testing.T) {
	out := newFakeOutput()
	e, events := newTestEngine(t, out, nil)

	missing := filepath.Join(t.TempDir(), "missing.wav")
	e.Load(missing)
	if err := e.Play(); err != nil && !errors.Is(err, media.ErrNoSource) {
		t.Fatalf("Play() error = %v", err)
	}

	ev := waitEvent(t, events, media.EventError)
	if ev.Source != missing || !errors.Is(ev.Err, os.ErrNotExist) {
		t.Errorf("error event = %+v, want not-exist for %s", ev, missing)
	}
	out.idle(t)
}

func TestEngineRewindsOnPlayAfterEnd(t *testing.T) {
	out := newFakeOutput()
	e, events := newTestEngine(t, out, nil)

	path := writeWAV(t, "short.wav", 800)
	e.Load(path)
	waitEvent(t, events, media.EventMetadata)

	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	out.drain(out.next(t))
	waitEvent(t, events, media.EventEnded)

	if got := e.Position(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Position() after end = %v, want 0.1", got)
	}

	if err := e.Play(); err != nil {
		t.Fatalf("Play() after end error = %v", err)
	}
	out.next(t)
	if got := e.Position(); got != 0 {
		t.Errorf("Position() after replay = %v, want 0", got)
	}
}

func TestEngineSeekClampsToEnd(t *testing.T) {
	out := newFakeOutput()
	e, events := newTestEngine(t, out, nil)

	e.Load(writeWAV(t, "seek.wav", 8000))
	waitEvent(t, events, media.EventMetadata)

	if err := e.SeekTo(0.5); err != nil {
		t.Fatalf("SeekTo() error = %v", err)
	}
	if got := e.Position(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Position() = %v, want 0.5", got)
	}

	if err := e.SeekTo(30); err != nil {
		t.Fatalf("SeekTo() past end error = %v", err)
	}
	if got := e.Position(); got >= e.Duration() {
		t.Errorf("Position() = %v, want before the end %v", got, e.Duration())
	}
}
