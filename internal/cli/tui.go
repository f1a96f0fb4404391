package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tessro/encore/internal/config"
	apperrors "github.com/tessro/encore/internal/errors"
	"github.com/tessro/encore/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive player",
	Long: `Launch the interactive terminal player.

The dashboard provides a live view with:
  • Now Playing - current track, progress, volume
  • History - tracks played this session

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  ←/→          Seek
  +/-          Volume up/down
  x            Clear track
  Tab          Switch panel`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "Refresh interval in milliseconds (default: tui.refresh_interval)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if err := requireAudio(); err != nil {
		return err
	}

	// Search is optional; the player works without an API.
	var catalog tui.Catalog
	client, err := newAPIClient()
	switch {
	case err == nil:
		catalog = client
	case errors.Is(err, apperrors.ErrAPINotConfigured):
		logger.Info("api not configured, search disabled")
	default:
		return err
	}

	ctrl, err := newController(newResource())
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	if tuiRefresh > 0 {
		cfg.TUI.RefreshInterval = tuiRefresh
	}

	configPath := cfgFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	return tui.Run(cmd.Context(), tui.Options{
		Player:     ctrl,
		Catalog:    catalog,
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
	})
}
