package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tessro/encore/internal/core"
	"github.com/tessro/encore/internal/playback"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved player state",
	Long:  `Shows the track and volume encore will pick up the next time it plays.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusResult struct {
	Track     *core.Track `json:"track"`
	Volume    int         `json:"volume"`
	SavedAt   *time.Time  `json:"saved_at,omitempty"`
	StatePath string      `json:"state_path"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	snap, err := playback.LoadSnapshot(st, cfg.Player.DefaultVolume)
	if err != nil {
		logger.Warn("saved state is unreadable, showing defaults", "path", st.Path(), "error", err)
	}

	result := statusResult{
		Track:     snap.Track,
		Volume:    percent(snap.Volume),
		StatePath: st.Path(),
	}
	if info, err := os.Stat(st.Path()); err == nil {
		modTime := info.ModTime()
		result.SavedAt = &modTime
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	return outputStatus(result)
}

func outputStatus(s statusResult) error {
	if s.Track == nil {
		fmt.Println("No track selected")
	} else {
		fmt.Printf("⏸ %s\n", s.Track.Title)
		if s.Track.Artist != "" {
			fmt.Printf("    %s\n", s.Track.Artist)
		}
		if s.Track.ID != "" && s.Track.ID != s.Track.MediaURL {
			fmt.Printf("    id: %s\n", s.Track.ID)
		}
		if Verbose() {
			fmt.Printf("    media: %s\n", s.Track.MediaURL)
			if s.Track.CoverURL != "" {
				fmt.Printf("    cover: %s\n", s.Track.CoverURL)
			}
		}
	}

	fmt.Printf("🔊 Volume: %d%%\n", s.Volume)
	if s.SavedAt != nil {
		fmt.Printf("Saved %s\n", humanize.Time(*s.SavedAt))
	}
	if Verbose() {
		fmt.Printf("State file: %s\n", s.StatePath)
	}
	return nil
}
