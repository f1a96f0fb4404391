package config

// Config is the root configuration structure.
type Config struct {
	API     APIConfig     `toml:"api"`
	Player  PlayerConfig  `toml:"player"`
	Storage StorageConfig `toml:"storage"`
	Tail    TailConfig    `toml:"tail"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig holds music service API settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout"` // seconds
}

// PlayerConfig holds local playback settings.
type PlayerConfig struct {
	DefaultVolume float64 `toml:"default_volume"`
	SeekStep      float64 `toml:"seek_step"`   // seconds
	VolumeStep    float64 `toml:"volume_step"` // fraction of full volume
	TimeUpdateMs  int     `toml:"time_update_ms"`
	Audio         string  `toml:"audio"`
}

// StorageConfig holds the location of persisted player state.
type StorageConfig struct {
	Path string `toml:"path"`
}

// TailConfig holds settings for event output while playing.
type TailConfig struct {
	NoEmoji   bool   `toml:"no_emoji"`
	Timestamp bool   `toml:"timestamp"`
	Format    string `toml:"format"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
