package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tessro/encore/internal/media"
	"github.com/tessro/encore/internal/playback"
)

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Show, set or adjust the saved volume",
	Long: `Show the saved playback volume, set it (0-100) or adjust it up/down
by player.volume_step. The next 'encore play' or 'encore ui' uses it.

Examples:
  encore volume       # Show volume
  encore volume 50    # Set volume to 50%
  encore volume --up  # Increase volume by one step`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved track",
	Long:  `Clear the track remembered from the last session. The volume is kept.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by one step")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by one step")
	volumeCmd.MarkFlagsMutuallyExclusive("up", "down")
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(clearCmd)
}

// offlineController edits persisted state without producing sound.
func offlineController() (*playback.Controller, error) {
	return newController(media.NewNull())
}

func runVolume(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && (volumeUp || volumeDown) {
		return fmt.Errorf("give either a level or --up/--down, not both")
	}

	ctrl, err := offlineController()
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	current := ctrl.State().Volume

	var target float64
	switch {
	case len(args) > 0:
		val, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid volume level: %s", args[0])
		}
		if val < 0 || val > 100 {
			return fmt.Errorf("volume must be between 0 and 100")
		}
		target = float64(val) / 100
	case volumeUp:
		target = current + cfg.Player.VolumeStep
	case volumeDown:
		target = current - cfg.Player.VolumeStep
	default:
		// Just show current volume
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"volume": percent(current),
			})
		}
		fmt.Printf("🔊 Volume: %d%%\n", percent(current))
		return nil
	}

	ctrl.SetVolume(target)
	next := ctrl.State().Volume

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"volume":   percent(next),
			"previous": percent(current),
		})
	}
	fmt.Printf("🔊 Volume: %d%% (was %d%%)\n", percent(next), percent(current))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctrl, err := offlineController()
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	state := ctrl.State()
	ctrl.SelectTrack(nil)

	if JSONOutput() {
		out := map[string]interface{}{"status": "cleared"}
		if state.Track != nil {
			out["track_id"] = state.Track.ID
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	if state.Track == nil {
		fmt.Println("Nothing to clear")
		return nil
	}
	fmt.Printf("⏹ Cleared %s\n", state.Track.DisplayName())
	return nil
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}
