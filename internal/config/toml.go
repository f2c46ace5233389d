// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Log    LogSection    `toml:"log"`
	Charts ChartsSection `toml:"charts"`
	Server ServerSection `toml:"server"`
}

// LogSection maps log file settings.
type LogSection struct {
	Path        *string `toml:"path"`
	Delimiter   *string `toml:"delimiter"`
	Encoding    *string `toml:"encoding"`
	OnMalformed *string `toml:"on-malformed"`
	Cache       *bool   `toml:"cache"`
}

// ChartsSection maps chart settings.
type ChartsSection struct {
	Bins *int `toml:"bins"`
	Top  *int `toml:"top"`
}

// ServerSection maps web dashboard settings.
type ServerSection struct {
	Addr  *string `toml:"addr"`
	Debug *bool   `toml:"debug"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
