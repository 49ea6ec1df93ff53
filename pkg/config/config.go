// Package config loads orca.toml.
//
// A configuration file is optional. [Load] starts from [Default] and
// decodes the file on top, so a file only needs the keys it changes:
//
//	[layout]
//	indent_mode = "fixed"
//	indent_pad  = 2
//	line_step   = 5
//
//	[font]
//	name = "lmmono10"
//	size = 14
//
//	[canvas]
//	margin = 8
//	scale  = 2
//
//	[cache]
//	backend = "redis"
//	ttl     = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
// Unknown keys are rejected so typos do not go unnoticed.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orca/pkg/cache"
	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/fonts"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/press/face"
	"github.com/matzehuels/orca/pkg/render/sink"
)

// FileName is the configuration file looked up by DefaultPath.
const FileName = "orca.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all orca settings.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Font   FontConfig   `toml:"font"`
	Canvas CanvasConfig `toml:"canvas"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds the indent policy and line step.
type LayoutConfig struct {
	IndentMode string `toml:"indent_mode"`
	IndentPad  int    `toml:"indent_pad"`
	LineStep   int    `toml:"line_step"`
}

// FontConfig selects the face used for raster output.
type FontConfig struct {
	Name string  `toml:"name"`
	Size float64 `toml:"size"`
	DPI  float64 `toml:"dpi"`
}

// CanvasConfig sizes raster and SVG output.
// A zero Width or Height sizes that side to the layout.
type CanvasConfig struct {
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	Margin int  `toml:"margin"`
	Scale  int  `toml:"scale"`
	Bounds bool `toml:"bounds"`
	Edges  bool `toml:"edges"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Prefix  string        `toml:"prefix"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig addresses the redis backend.
type RedisConfig struct {
	Addr     string        `toml:"addr"`
	Password string        `toml:"password"`
	DB       int           `toml:"db"`
	Timeout  time.Duration `toml:"timeout"`
}

// ServerConfig configures `orca serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	steps := layout.DefaultSteps()
	return &Config{
		Layout: LayoutConfig{
			IndentMode: string(steps.Mode),
			IndentPad:  steps.Pad,
			LineStep:   steps.Line,
		},
		Font: FontConfig{
			Name: fonts.Default,
			Size: 12,
			DPI:  96,
		},
		Canvas: CanvasConfig{Margin: 4, Scale: 1},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379", Timeout: 2 * time.Second},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// DefaultPath returns the first existing configuration file among
// ./orca.toml and <user config dir>/orca/orca.toml, or "" if neither exists.
func DefaultPath() string {
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "orca", FileName))
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting as errors.ErrCodeInvalidConfig.
func (c *Config) Validate() error {
	if _, err := c.Steps(); err != nil {
		return err
	}
	if !slices.Contains(fonts.Names(), c.Font.Name) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown font %q (available: %s)", c.Font.Name, strings.Join(fonts.Names(), ", "))
	}
	if err := face.ValidateMetrics(c.Font.Size, c.Font.DPI); err != nil {
		return err
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 || c.Canvas.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas width, height and margin must be >= 0")
	}
	if c.Canvas.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas scale must be >= 1, got %d", c.Canvas.Scale)
	}
	if max(c.Canvas.Width, c.Canvas.Height)*c.Canvas.Scale > sink.MaxCanvasSide {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas side exceeds %d pixels", sink.MaxCanvasSide)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be >= 0")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	return nil
}

// Steps converts the layout section to layout.Steps.
func (c *Config) Steps() (layout.Steps, error) {
	mode, err := layout.ParseIndentMode(c.Layout.IndentMode)
	if err != nil {
		return layout.Steps{}, err
	}
	s := layout.Steps{Mode: mode, Pad: c.Layout.IndentPad, Line: c.Layout.LineStep}
	return s, s.Validate()
}

// RedisOptions converts the redis section for cache.NewRedisCache.
func (c *Config) RedisOptions() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Cache.Redis.Addr,
		Password: c.Cache.Redis.Password,
		DB:       c.Cache.Redis.DB,
		Timeout:  c.Cache.Redis.Timeout,
	}
}
