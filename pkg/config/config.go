// Package config loads untangle.toml, the optional file holding optimizer
// defaults, the cache backend and the API listen address.
//
//	seed = 42
//	tie_break = 0.3
//	passes_per_layer = 1
//
//	[anneal]
//	initial_temp = 1.0
//	cooling_rate = 0.9
//	min_temp = 0.001
//	max_iterations = 200
//	reheats = 2
//
//	[cache]
//	backend = "file"   # file | redis | none
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	timeout = "1m"
//
// Keys missing from the file keep their [Default] values; unknown keys are
// rejected so typos do not go unnoticed.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/untangle/pkg/anneal"
	"github.com/matzehuels/untangle/pkg/cache"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/untangle"
)

// FileName is the config file looked up in the user config directory.
const FileName = "untangle.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration.
type Config struct {
	Seed           uint64        `toml:"seed"`
	TieBreak       float64       `toml:"tie_break"`
	PassesPerLayer int           `toml:"passes_per_layer"`
	Anneal         anneal.Params `toml:"anneal"`
	Cache          CacheConfig   `toml:"cache"`
	Server         ServerConfig  `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir,omitempty"` // file backend; empty means cache.DefaultDir()
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// ServerConfig configures `untangle serve`.
type ServerConfig struct {
	Addr    string   `toml:"addr"`
	Timeout Duration `toml:"timeout"` // per request, 0 disables
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a string ("168h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:           untangle.DefaultSeed,
		TieBreak:       untangle.DefaultTieBreak,
		PassesPerLayer: 1,
		Anneal:         anneal.DefaultParams(),
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.TTLResult},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Timeout:      Duration{time.Minute},
			MaxBodyBytes: 8 << 20,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/untangle/untangle.toml or the OS
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "untangle", FileName), nil
}

// Load reads the config at path. With an empty path the default location
// is tried and a missing file yields [Default]; an explicit path that does
// not exist is a FILE_NOT_FOUND error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidPath, err, "config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errs.Wrap(errs.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value. Optimizer settings fail with USAGE_ERROR,
// cache and server settings with INVALID_INPUT.
func (c Config) Validate() error {
	if err := c.Anneal.Validate(); err != nil {
		return err
	}
	if err := errs.ValidateProbability("tie_break", c.TieBreak); err != nil {
		return err
	}
	if c.PassesPerLayer <= 0 {
		return errs.New(errs.ErrCodeUsage, "passes_per_layer must be positive, got %d", c.PassesPerLayer)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	if c.Server.Timeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server timeout must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
