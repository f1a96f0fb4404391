package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tessro/encore/internal/api"
	"github.com/tessro/encore/internal/core"
	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/playback"
	"github.com/tessro/encore/internal/tail"
)

// errPlaybackHalted is returned when playback stops before the track loads.
var errPlaybackHalted = errors.New("playback stopped before the track loaded")

var (
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
	playVolume    int
	playStay      bool
)

var playCmd = &cobra.Command{
	Use:   "play <track-id|url|path>",
	Short: "Play a track",
	Long: `Play a track from the music service, a URL or a local file.
Playback events are printed as they happen. Press Ctrl+C to stop.

Examples:
  encore play 42                         # Play catalog track 42
  encore play https://example.com/a.mp3  # Play a URL
  encore play ~/Music/song.wav           # Play a local file
  encore play 42 --format "{{.Emoji}} {{.Title}} {{.Elapsed}}"`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the last track",
	Long:  `Play the track that was selected when encore last ran, from the beginning.`,
	Args:  cobra.NoArgs,
	RunE:  runResume,
}

func init() {
	for _, cmd := range []*cobra.Command{playCmd, resumeCmd} {
		cmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
		cmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
		cmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom event format template")
		cmd.Flags().BoolVar(&playStay, "stay", false, "keep running after the track ends")
		rootCmd.AddCommand(cmd)
	}
	playCmd.Flags().IntVar(&playVolume, "volume", -1, "playback volume (0-100)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if err := requireAudio(); err != nil {
		return err
	}

	ctx := cmd.Context()
	track, client, err := resolveTrack(ctx, args[0])
	if err != nil {
		return err
	}

	ctrl, err := newController(newResource())
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	if playVolume >= 0 {
		ctrl.SetVolume(float64(playVolume) / 100)
	}
	ctrl.SelectTrack(track)

	var report func(string)
	if client != nil {
		report = func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.ReportListen(ctx, id); err != nil {
				logger.Warn("listen report failed", "track", id, "error", err)
			}
		}
	}
	return followPlayback(ctx, ctrl, report)
}

func runResume(cmd *cobra.Command, args []string) error {
	if err := requireAudio(); err != nil {
		return err
	}

	ctrl, err := newController(newResource())
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	state := ctrl.State()
	if !state.HasTrack() {
		return fmt.Errorf("nothing to resume. Run 'encore play <track>' first")
	}
	ctrl.SetPlaying(true)

	return followPlayback(cmd.Context(), ctrl, nil)
}

// resolveTrack turns a command-line reference into a playable track. Catalog
// lookups also return the client so the listen can be reported.
func resolveTrack(ctx context.Context, ref string) (*core.Track, *api.Client, error) {
	track, ok, err := localTrack(ref)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return track, nil, nil
	}

	client, err := newAPIClient()
	if err != nil {
		return nil, nil, err
	}
	track, err = client.LookupTrack(ctx, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("track %s: %w", ref, err)
	}
	return track, client, nil
}

// followPlayback prints tail events for ctrl until interrupted or, unless
// --stay is set, until the track ends. report is called once, in the
// background, when audio first starts advancing.
func followPlayback(ctx context.Context, ctrl *playback.Controller, report func(id string)) error {
	formatter, err := tail.NewFormatter(
		tail.WithEmoji(!(playNoEmoji || cfg.Tail.NoEmoji)),
		tail.WithTimestamp(playTimestamp || cfg.Tail.Timestamp),
		tail.WithTemplate(firstNonEmpty(playFormat, cfg.Tail.Format)),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if report != nil {
		var once sync.Once
		cancel := ctrl.Subscribe(func(s core.PlaybackState) {
			if s.IsPlaying && s.Elapsed > 0 && s.Track != nil {
				id := s.Track.ID
				once.Do(func() { go report(id) })
			}
		})
		defer cancel()
	}

	watcher := tail.NewWatcher(ctrl)
	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	enc := json.NewEncoder(os.Stdout)
	failed := false
	for event := range watcher.Events() {
		if JSONOutput() {
			_ = enc.Encode(eventJSON(event))
		} else {
			fmt.Println(formatter.Format(event))
		}

		switch event.Type {
		case tail.EventTrackChange:
			// The first event carries the state at subscription, which
			// may already show a failed load.
			if !playStay && stoppedByError(event.Current) {
				failed = true
				stop()
			}
		case tail.EventTrackComplete, tail.EventTrackClear:
			if !playStay {
				stop()
			}
		case tail.EventPause:
			// Nothing here pauses on request, so a pause is an early end,
			// an error or a rejected play.
			if !playStay {
				failed = stoppedByError(event.Current)
				stop()
			}
		}
	}

	if err := <-errCh; err != nil && err != context.Canceled {
		return err
	}
	if failed {
		return apperrors.WithSuggestion(errPlaybackHalted,
			"Check that the track's file is reachable and is MP3 or WAV. Run with --verbose for details")
	}
	return nil
}

// stoppedByError reports whether playback halted before the resource ever
// reported a duration, which is how a failed load shows up.
func stoppedByError(s *core.PlaybackState) bool {
	return s != nil && s.HasTrack() && !s.IsPlaying && s.Duration == 0
}

type playEvent struct {
	Type     string  `json:"type"`
	Time     string  `json:"time"`
	TrackID  string  `json:"track_id,omitempty"`
	Title    string  `json:"title,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Playing  bool    `json:"playing"`
	Elapsed  float64 `json:"elapsed"`
	Duration float64 `json:"duration"`
	Volume   float64 `json:"volume"`
}

func eventJSON(e tail.Event) playEvent {
	out := playEvent{
		Type: e.Type.String(),
		Time: e.Timestamp.Format(time.RFC3339),
	}
	s := e.Current
	if s == nil {
		return out
	}
	if t := s.Track; t != nil {
		out.TrackID, out.Title, out.Artist = t.ID, t.Title, t.Artist
	} else if p := e.Previous; p != nil && p.Track != nil {
		out.TrackID, out.Title, out.Artist = p.Track.ID, p.Track.Title, p.Track.Artist
	}
	out.Playing = s.IsPlaying
	out.Elapsed = s.Elapsed
	out.Duration = s.Duration
	out.Volume = s.Volume
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

