package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Timeout: 30,
		},
		Player: PlayerConfig{
			DefaultVolume: 0.5,
			SeekStep:      5,
			VolumeStep:    0.05,
			TimeUpdateMs:  250,
			Audio:         "auto",
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// API
	if c.API.Timeout == 0 {
		c.API.Timeout = d.API.Timeout
	}

	// Player
	if c.Player.DefaultVolume == 0 {
		c.Player.DefaultVolume = d.Player.DefaultVolume
	}
	if c.Player.SeekStep == 0 {
		c.Player.SeekStep = d.Player.SeekStep
	}
	if c.Player.VolumeStep == 0 {
		c.Player.VolumeStep = d.Player.VolumeStep
	}
	if c.Player.TimeUpdateMs == 0 {
		c.Player.TimeUpdateMs = d.Player.TimeUpdateMs
	}
	if c.Player.Audio == "" {
		c.Player.Audio = d.Player.Audio
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
