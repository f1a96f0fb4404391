package playback

import (
	"log/slog"
	"time"

	"github.com/tessro/encore/internal/core"
)

type options struct {
	logger        *slog.Logger
	defaultVolume float64
	now           func() time.Time
}

// Option configures a Controller.
type Option func(*options)

// WithLogger sets the logger used for anomalies and transitions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefaultVolume sets the volume used when no snapshot is stored.
func WithDefaultVolume(v float64) Option {
	return func(o *options) {
		o.defaultVolume = v
	}
}

// WithClock sets the time source for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func defaultOptions() options {
	return options{
		logger:        slog.Default(),
		defaultVolume: core.DefaultVolume,
		now:           time.Now,
	}
}
