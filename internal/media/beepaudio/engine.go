package beepaudio

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/samber/lo"

	"github.com/tessro/encore/internal/media"
)

// output is the device decoded audio is mixed into. Lock guards every
// streamer handed to Play while it is being read.
type output interface {
	Init() error
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// engine is the resource state machine. It fetches and decodes sources
// and drives an output; Resource pairs it with the system speaker.
type engine struct {
	out        output
	client     *http.Client
	log        *slog.Logger
	timeUpdate time.Duration
	listeners  media.Listeners

	mu         sync.Mutex
	generation uint64
	source     string
	cancelLoad context.CancelFunc
	loading    bool
	wantPlay   bool
	volume     float64
	closed     bool

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	gain     *effects.Volume
	queued   bool // handed to the output and not yet drained
	stopTick chan struct{}
}

func newEngine(out output, s settings) *engine {
	return &engine{
		out:        out,
		client:     s.client,
		log:        s.logger,
		timeUpdate: s.timeUpdate,
		volume:     1,
	}
}

// Load starts fetching and decoding url in the background.
func (r *engine) Load(url string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.resetLocked()
	r.source = url
	r.loading = true
	gen := r.generation
	ctx, cancel := context.WithCancel(context.Background())
	r.cancelLoad = cancel
	r.mu.Unlock()

	go r.load(ctx, gen, url)
}

func (r *engine) load(ctx context.Context, gen uint64, src string) {
	data, err := fetch(ctx, r.client, src)
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	if err == nil {
		streamer, format, err = decode(data, src)
	}

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		if streamer != nil {
			streamer.Close()
		}
		return
	}
	r.loading = false
	if err != nil {
		r.wantPlay = false
		r.mu.Unlock()
		r.log.Debug("source load failed", "source", src, "error", err)
		r.listeners.Emit(media.Event{Type: media.EventError, Source: src, Err: err})
		return
	}

	r.streamer = streamer
	r.format = format
	r.ctrl = &beep.Ctrl{Paused: true}
	r.gain = &effects.Volume{Streamer: r.ctrl, Base: 2}
	r.applyVolumeLocked()
	duration := format.SampleRate.D(streamer.Len()).Seconds()
	wantPlay := r.wantPlay
	r.mu.Unlock()

	r.log.Debug("source decoded", "source", src, "duration", duration, "sample_rate", int(format.SampleRate))
	r.listeners.Emit(media.Event{Type: media.EventMetadata, Source: src, Duration: duration})

	if wantPlay {
		r.mu.Lock()
		if gen != r.generation || !r.wantPlay {
			r.mu.Unlock()
			return
		}
		err := r.startLocked(gen)
		if err != nil {
			r.wantPlay = false
		}
		r.mu.Unlock()
		if err != nil {
			r.listeners.Emit(media.Event{Type: media.EventError, Source: src, Err: err})
		}
	}
}

// Unload stops output and forgets the current source.
func (r *engine) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

// resetLocked abandons the current source. Callbacks and loads from the
// previous generation are ignored afterwards.
func (r *engine) resetLocked() {
	r.generation++
	if r.cancelLoad != nil {
		r.cancelLoad()
		r.cancelLoad = nil
	}
	r.stopTickerLocked()
	if r.queued {
		r.out.Lock()
		r.ctrl.Streamer = nil
		r.out.Unlock()
		r.queued = false
	}
	if r.streamer != nil {
		r.streamer.Close()
	}
	r.streamer = nil
	r.ctrl = nil
	r.gain = nil
	r.source = ""
	r.loading = false
	r.wantPlay = false
}

// Play resumes output. While the source is still loading the request is
// remembered and honoured once decoding finishes.
func (r *engine) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source == "" {
		return media.ErrNoSource
	}
	r.wantPlay = true
	if r.loading {
		return nil
	}
	if r.streamer == nil {
		r.wantPlay = false
		return media.ErrNoSource
	}
	if err := r.startLocked(r.generation); err != nil {
		r.wantPlay = false
		return err
	}
	return nil
}

func (r *engine) startLocked(gen uint64) error {
	if err := r.out.Init(); err != nil {
		return err
	}
	if !r.queued {
		if r.streamer.Position() >= r.streamer.Len() {
			if err := r.streamer.Seek(0); err != nil {
				return err
			}
		}
		r.ctrl.Streamer = beep.Resample(4, r.format.SampleRate, r.out.SampleRate(), r.streamer)
		r.ctrl.Paused = false
		r.out.Play(beep.Seq(r.gain, beep.Callback(func() {
			go r.finished(gen)
		})))
		r.queued = true
	} else {
		r.out.Lock()
		r.ctrl.Paused = false
		r.out.Unlock()
	}
	r.startTickerLocked(gen)
	return nil
}

// finished runs when the output drains the stream.
func (r *engine) finished(gen uint64) {
	r.mu.Lock()
	if gen != r.generation || !r.queued {
		r.mu.Unlock()
		return
	}
	r.queued = false
	r.wantPlay = false
	r.stopTickerLocked()
	src := r.source
	r.mu.Unlock()

	r.listeners.Emit(media.Event{Type: media.EventEnded, Source: src})
}

// Pause halts output, keeping the position.
func (r *engine) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wantPlay = false
	r.stopTickerLocked()
	if r.queued {
		r.out.Lock()
		r.ctrl.Paused = true
		r.out.Unlock()
	}
}

// SeekTo moves the read position. Targets past the end are clamped.
func (r *engine) SeekTo(seconds float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.streamer == nil {
		return nil
	}
	n := r.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = lo.Clamp(n, 0, max(r.streamer.Len()-1, 0))

	if r.queued {
		r.out.Lock()
		defer r.out.Unlock()
	}
	return r.streamer.Seek(n)
}

// SetVolume sets the output gain for this and later sources.
func (r *engine) SetVolume(volume float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = lo.Clamp(volume, 0, 1)
	r.applyVolumeLocked()
}

func (r *engine) applyVolumeLocked() {
	if r.gain == nil {
		return
	}
	level, silent := gain(r.volume)
	if r.queued {
		r.out.Lock()
		defer r.out.Unlock()
	}
	r.gain.Volume = level
	r.gain.Silent = silent
}

// Position returns the read position in seconds.
func (r *engine) Position() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.positionLocked()
}

func (r *engine) positionLocked() float64 {
	if r.streamer == nil {
		return 0
	}
	if r.queued {
		r.out.Lock()
		defer r.out.Unlock()
	}
	return r.format.SampleRate.D(r.streamer.Position()).Seconds()
}

// Duration returns the decoded length in seconds, or 0 while loading.
func (r *engine) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streamer == nil {
		return 0
	}
	return r.format.SampleRate.D(r.streamer.Len()).Seconds()
}

func (r *engine) Subscribe(l media.Listener) func() {
	return r.listeners.Add(l)
}

// Close releases the current source. The output stays open.
func (r *engine) Close() error {
	r.mu.Lock()
	r.resetLocked()
	r.closed = true
	r.mu.Unlock()
	r.listeners.Clear()
	return nil
}

func (r *engine) startTickerLocked(gen uint64) {
	if r.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	r.stopTick = stop
	go r.tick(gen, stop)
}

func (r *engine) stopTickerLocked() {
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}
}

func (r *engine) tick(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(r.timeUpdate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			if gen != r.generation || !r.queued {
				r.mu.Unlock()
				continue
			}
			pos := r.positionLocked()
			src := r.source
			r.mu.Unlock()

			r.listeners.Emit(media.Event{Type: media.EventTimeUpdate, Source: src, Position: pos})
		}
	}
}

var _ media.Resource = (*engine)(nil)
