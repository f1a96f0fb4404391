//go:build !((linux && cgo) || windows || darwin)

package beepaudio

import (
	"github.com/tessro/encore/internal/media"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for native sound libraries.
const AudioAvailable = false

// Resource is a silent stand-in for builds without cgo. It accepts every
// command and never reports events.
type Resource struct {
	*media.Null
}

// New creates a silent resource.
func New(opts ...Option) *Resource {
	return &Resource{Null: media.NewNull()}
}
