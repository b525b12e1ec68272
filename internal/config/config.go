package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DefaultFolder    string  `koanf:"default_folder"`    // folder scanned when none is given on the command line
	RecursiveScan    bool    `koanf:"recursive_scan"`    // descend into subfolders
	CrossfadeSeconds int     `koanf:"crossfade_seconds"` // 0 disables crossfading
	Volume           float64 `koanf:"volume"`            // master volume, 0.0-1.0
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		RecursiveScan:    true,
		CrossfadeSeconds: 3,
		Volume:           1.0,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in default_folder
	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// ~/.config/crossdeck/config.toml
		filepath.Join(xdg.ConfigHome, "crossdeck", "config.toml"),
		// ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
