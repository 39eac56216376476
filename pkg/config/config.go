// Package config loads the TOML configuration shared by the CLI and the
// server.
//
// A configuration file only needs the keys it changes; everything else
// keeps the value from [Default]:
//
//	log_level = "debug"
//
//	[server]
//	addr = ":9000"
//	allowed_origins = ["https://example.org"]
//
//	[upstream]
//	base_url = "https://ntg.example.org/api/"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "redis:6379"
//
// Unknown keys are rejected so typos do not go unnoticed.
package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/chord"
	"github.com/matzehuels/stemma/pkg/errors"
	"github.com/matzehuels/stemma/pkg/fetch"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the top-level configuration.
type Config struct {
	LogLevel string         `toml:"log_level" validate:"oneof=debug info warn error"`
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Cache    CacheConfig    `toml:"cache"`
	Chord    ChordConfig    `toml:"chord"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `toml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gte=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" validate:"gt=0"`
	Metrics        bool          `toml:"metrics"`
}

// UpstreamConfig configures where descriptions and passages are fetched.
type UpstreamConfig struct {
	BaseURL    string            `toml:"base_url" validate:"omitempty,http_url"`
	AllowFiles bool              `toml:"allow_files"`
	Timeout    time.Duration     `toml:"timeout" validate:"gte=0"`
	Attempts   int               `toml:"attempts" validate:"gte=0,lte=10"`
	Headers    map[string]string `toml:"headers"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string            `toml:"backend" validate:"oneof=file redis none"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ChordConfig holds default chord layout options.
type ChordConfig struct {
	LeafSize          float64 `toml:"leaf_size" validate:"gte=0"`
	Tension           float64 `toml:"tension" validate:"gte=0,lte=1"`
	ReferenceCategory string  `toml:"reference_category"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RequestTimeout: 60 * time.Second,
			MaxBodyBytes:   4 << 20,
			Metrics:        true,
		},
		Upstream: UpstreamConfig{
			Timeout:  10 * time.Second,
			Attempts: 3,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Redis:   cache.DefaultRedisConfig(),
		},
		Chord: ChordConfig{
			LeafSize:          chord.DefaultLeafSize,
			Tension:           chord.DefaultTension,
			ReferenceCategory: chord.DefaultReferenceCategory,
		},
	}
}

// Load reads the file at path over [Default] and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	return errors.ValidateStruct(c)
}

// Level returns the parsed log level.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// FetchOptions returns fetch client options for the upstream section.
func (c Config) FetchOptions(store cache.Cache, logger *log.Logger) fetch.Options {
	opts := fetch.Options{
		BaseURL:    c.Upstream.BaseURL,
		AllowFiles: c.Upstream.AllowFiles,
		Cache:      store,
		Attempts:   c.Upstream.Attempts,
		Headers:    c.Upstream.Headers,
		Logger:     logger,
	}
	if c.Upstream.Timeout > 0 {
		opts.HTTPClient = fetch.NewHTTPClient(c.Upstream.Timeout)
	}
	return opts
}

// ChordOptions returns the configured chord defaults.
func (c Config) ChordOptions() chord.Options {
	return chord.Options{
		LeafSize:          c.Chord.LeafSize,
		Tension:           c.Chord.Tension,
		ReferenceCategory: c.Chord.ReferenceCategory,
	}
}

// OpenCache opens the configured cache backend. The file backend falls
// back to defaultDir when no directory is configured.
func (c Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir := c.CacheDir(defaultDir)
		if dir == "" {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// CacheDir returns the configured file cache directory with a leading ~
// expanded, or defaultDir when none is configured.
func (c Config) CacheDir(defaultDir string) string {
	if c.Cache.Dir == "" {
		return defaultDir
	}
	return expandHome(c.Cache.Dir)
}

func expandHome(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}
