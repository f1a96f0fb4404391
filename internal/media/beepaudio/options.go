// Package beepaudio plays tracks through the system speaker using beep.
package beepaudio

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeUpdate is how often a playing resource reports its position.
const DefaultTimeUpdate = 250 * time.Millisecond

type settings struct {
	client     *http.Client
	logger     *slog.Logger
	timeUpdate time.Duration
}

func defaultSettings() settings {
	return settings{
		client:     &http.Client{Timeout: 2 * time.Minute},
		logger:     slog.Default(),
		timeUpdate: DefaultTimeUpdate,
	}
}

// Option configures a Resource.
type Option func(*settings)

// WithHTTPClient sets the client used to fetch remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeUpdate sets the position reporting interval.
func WithTimeUpdate(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeUpdate = d
		}
	}
}
