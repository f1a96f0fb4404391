//go:build (linux && cgo) || windows || darwin

package beepaudio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/media"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

const outputRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// speakerOutput is the process-wide system speaker, opened on first use.
type speakerOutput struct{}

func (speakerOutput) Init() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAudioUnavailable, speakerErr)
	}
	return nil
}

func (speakerOutput) SampleRate() beep.SampleRate { return outputRate }
func (speakerOutput) Play(s beep.Streamer)        { speaker.Play(s) }
func (speakerOutput) Lock()                       { speaker.Lock() }
func (speakerOutput) Unlock()                     { speaker.Unlock() }

// Resource is a media.Resource backed by the system speaker.
type Resource struct {
	*engine
}

// New creates a speaker-backed resource. The speaker is opened lazily on
// the first Play.
func New(opts ...Option) *Resource {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Resource{engine: newEngine(speakerOutput{}, s)}
}

var _ media.Resource = (*Resource)(nil)
