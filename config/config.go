package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"metpatch/game"
)

type Config struct {
	Logging   LoggingConfig   `toml:"logging"`
	Output    OutputConfig    `toml:"output"`
	Addresses AddressesConfig `toml:"addresses"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type OutputConfig struct {
	TileSheet      string `toml:"tile_sheet"` // PNG path; empty skips the sheet
	TileSheetScale int    `toml:"tile_sheet_scale"`
	Columns        int    `toml:"columns"`
	Workers        int    `toml:"workers"`
}

// AddressesConfig overrides table locations for modified base patches. Zero
// keeps the built-in value.
type AddressesConfig struct {
	HatchEvents     int `toml:"hatch_events"`
	HatchEventCount int `toml:"hatch_event_count"`
	SoundTable      int `toml:"sound_table"`
	CreditsLen      int `toml:"credits_len"`
}

// Override replaces d's addresses with the configured ones.
func (a AddressesConfig) Override(d *game.Data) {
	if a.SoundTable != 0 {
		d.SoundTable = a.SoundTable
	}
	if a.CreditsLen != 0 {
		d.CreditsLen = a.CreditsLen
	}
	if d.DoorLocks == nil {
		return
	}
	if a.HatchEvents != 0 {
		d.DoorLocks.HatchEvents = a.HatchEvents
	}
	if a.HatchEventCount != 0 {
		d.DoorLocks.HatchEventCount = a.HatchEventCount
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default is the configuration used without a config file.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			TileSheetScale: 2,
			Columns:        16,
			Workers:        4,
		},
	}
}
