package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the optional application configuration, read from
// ~/.config/mosaic/config.toml. Every field has a usable default so the
// file does not need to exist.
type Config struct {
	// Width and Height are the default viewport size in pixels.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// PrefsDir overrides where preference records are stored.
	PrefsDir string `toml:"prefs_dir"`

	// ShareBaseURL is the base URL share links are built against.
	ShareBaseURL string `toml:"share_base_url"`

	// PNGScale is the raster scale factor for PNG output.
	PNGScale float64 `toml:"png_scale"`
}

func defaultConfig() Config {
	return Config{
		Width:        1280,
		Height:       800,
		ShareBaseURL: "https://mosaic.local/view",
		PNGScale:     2.0,
	}
}

// configPath returns the default config file location.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mosaic", "config.toml")
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file is
// an error since the user explicitly wrote it.
func loadConfig(path string) (Config, error) {
	if path == "" {
		path = configPath()
	}
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultConfig().Width
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultConfig().Height
	}
	if cfg.PNGScale <= 0 {
		cfg.PNGScale = defaultConfig().PNGScale
	}
	return cfg, nil
}
