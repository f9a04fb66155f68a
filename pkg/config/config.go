// Package config loads ontomask configuration from a TOML file, with sane
// defaults for every field so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ontomask/pkg/errors"
	"github.com/matzehuels/ontomask/pkg/pipeline"
)

// Config is the full ontomask configuration.
type Config struct {
	// Trim holds the default threshold configuration.
	Trim TrimConfig `toml:"trim"`

	// Mask holds mask construction defaults.
	Mask MaskConfig `toml:"mask"`

	// Cache selects and configures the cache backend.
	Cache CacheConfig `toml:"cache"`

	// Store selects and configures the variant store backend.
	Store StoreConfig `toml:"store"`

	// Server configures the HTTP API.
	Server ServerConfig `toml:"server"`
}

// TrimConfig holds trim thresholds and traversal limits.
type TrimConfig struct {
	TopThresh    int `toml:"top_thresh"`
	BottomThresh int `toml:"bottom_thresh"`
	VisitBudget  int `toml:"visit_budget"`
}

// MaskConfig holds mask construction defaults.
type MaskConfig struct {
	Orientation string `toml:"orientation"`
}

// CacheConfig selects the cache backend. Backend is "file", "redis", or
// "none".
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Addr    string `toml:"addr"`
	DB      int    `toml:"db"`
	Prefix  string `toml:"prefix"`
}

// StoreConfig selects the variant store backend. Backend is "memory" or
// "mongo".
type StoreConfig struct {
	Backend  string `toml:"backend"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Trim: TrimConfig{
			TopThresh:    pipeline.DefaultTopThresh,
			BottomThresh: pipeline.DefaultBottomThresh,
		},
		Mask: MaskConfig{
			Orientation: pipeline.DefaultOrientation,
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     defaultCacheDir(),
		},
		Store: StoreConfig{
			Backend:  "memory",
			Database: "ontomask",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Load reads the configuration file at path, layered over the defaults.
// An empty path or a missing file yields the defaults; a malformed file is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if err := errors.ValidateThresholds(c.Trim.TopThresh, c.Trim.BottomThresh); err != nil {
		return err
	}
	if !pipeline.ValidOrientations[c.Mask.Orientation] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid orientation: %q (must be one of: decoder, encoder)", c.Mask.Orientation)
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid store backend: %q (must be one of: memory, mongo)", c.Store.Backend)
	}
	if c.Store.Backend == "mongo" && c.Store.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.uri is required for the mongo backend")
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ontomask")
	}
	return ".ontomask-cache"
}
