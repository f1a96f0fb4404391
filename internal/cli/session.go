package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tessro/encore/internal/api"
	"github.com/tessro/encore/internal/core"
	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/media"
	"github.com/tessro/encore/internal/media/beepaudio"
	"github.com/tessro/encore/internal/playback"
	"github.com/tessro/encore/internal/store"
)

// openStore opens the file holding persisted player state.
func openStore() (*store.File, error) {
	path, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	return store.NewFile(path), nil
}

// newResource picks the audio backend. Without audio support, or with
// player.audio = "off", commands run against a silent resource.
func newResource() media.Resource {
	if cfg.Player.Audio == "off" || !beepaudio.AudioAvailable {
		logger.Debug("audio output disabled", "audio", cfg.Player.Audio, "available", beepaudio.AudioAvailable)
		return media.NewNull()
	}
	return beepaudio.New(
		beepaudio.WithLogger(logger),
		beepaudio.WithTimeUpdate(time.Duration(cfg.Player.TimeUpdateMs)*time.Millisecond),
	)
}

// newController builds a controller over res backed by the state file.
func newController(res media.Resource) (*playback.Controller, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return playback.New(res, st,
		playback.WithLogger(logger),
		playback.WithDefaultVolume(cfg.Player.DefaultVolume),
	), nil
}

// newAPIClient builds a REST client from config.
func newAPIClient() (*api.Client, error) {
	return api.New(cfg.API, api.WithLogger(logger))
}

// localTrack builds a track for a URL or file path given on the command line.
// ok is false when ref looks like a catalog ID.
func localTrack(ref string) (track *core.Track, ok bool, err error) {
	if u, perr := url.Parse(ref); perr == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return &core.Track{
				ID:       ref,
				Title:    trackTitle(u.Path),
				MediaURL: ref,
			}, true, nil
		}
	}

	if !strings.ContainsRune(ref, filepath.Separator) && filepath.Ext(ref) == "" {
		return nil, false, nil
	}

	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, false, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, false, fmt.Errorf("cannot open %s: %w", ref, err)
	}
	return &core.Track{
		ID:       abs,
		Title:    trackTitle(abs),
		MediaURL: abs,
	}, true, nil
}

func trackTitle(path string) string {
	base := filepath.Base(path)
	if title := strings.TrimSuffix(base, filepath.Ext(base)); title != "" && title != "." && title != "/" {
		return title
	}
	return "Untitled"
}

// requireAudio fails when the selected backend cannot make sound and the
// user did not ask for silent playback.
func requireAudio() error {
	if cfg.Player.Audio != "off" && !beepaudio.AudioAvailable {
		return apperrors.WithSuggestion(apperrors.ErrAudioUnavailable,
			"This build has no audio support. Set player.audio = \"off\" to run silently")
	}
	return nil
}
