// Package config loads hydrograph settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (hydrograph.toml in the working directory, or the file
//     named by --config)
//  3. HYDROGRAPH_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/hydrograph/pkg/errors"
)

// FileName is the config file looked up in the working directory.
const FileName = "hydrograph.toml"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds defaults for render flags.
type RenderConfig struct {
	Layout       string   `toml:"layout" env:"HYDROGRAPH_LAYOUT"`
	Colormap     string   `toml:"colormap" env:"HYDROGRAPH_COLORMAP"`
	ColorBy      string   `toml:"color_by" env:"HYDROGRAPH_COLOR_BY"`
	Scale        float64  `toml:"scale" env:"HYDROGRAPH_SCALE"`
	Formats      []string `toml:"formats" env:"HYDROGRAPH_FORMATS" envSeparator:","`
	DemandDigits int      `toml:"demand_digits" env:"HYDROGRAPH_DEMAND_DIGITS"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend  string        `toml:"backend" env:"HYDROGRAPH_CACHE"`
	Dir      string        `toml:"dir" env:"HYDROGRAPH_CACHE_DIR"`
	RedisURL string        `toml:"redis_url" env:"HYDROGRAPH_REDIS_URL"`
	TTL      time.Duration `toml:"ttl" env:"HYDROGRAPH_CACHE_TTL"`
	// Prefix namespaces artifact keys, e.g. "hydrograph:" on a shared Redis.
	Prefix   string        `toml:"prefix" env:"HYDROGRAPH_CACHE_PREFIX"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `toml:"addr" env:"HYDROGRAPH_ADDR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Layout:       "dot",
			Colormap:     "viridis",
			ColorBy:      "elevation",
			Scale:        20,
			Formats:      []string{"svg"},
			DemandDigits: 6,
		},
		Cache: CacheConfig{
			Backend:  CacheFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      7 * 24 * time.Hour,
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// Load merges defaults, the config file and the environment. An empty path
// uses FileName in the working directory if it exists; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if err := cfg.loadFile(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			err = nil
		} else if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		if err != nil {
			return cfg, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse env")
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks backend selection and numeric ranges. Names of layouts
// and colormaps are checked where they are used.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive, got %v", c.Render.Scale)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}
