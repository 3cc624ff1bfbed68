package server

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/signadot/xton-format/go-xton/parse"
)

const (
	defaultName         = "xton"
	defaultAddr         = ":8470"
	defaultMaxBodyBytes = 4 << 20
)

// Config is the service configuration, read from TOML.
type Config struct {
	Name          string              `toml:"name"`
	Addr          string              `toml:"addr"`
	CorsOrigins   []string            `toml:"cors_origins"`
	RedisAddr     string              `toml:"redis_addr"`
	RedisPrefix   string              `toml:"redis_prefix"`
	MaxBodyBytes  int64               `toml:"max_body_bytes"`
	MaxDepth      int                 `toml:"max_depth"`
	DuplicateKeys parse.DuplicateKeys `toml:"duplicate_keys"`
}

func DefaultConfig() Config {
	return Config{
		Name:         defaultName,
		Addr:         defaultAddr,
		MaxBodyBytes: defaultMaxBodyBytes,
		MaxDepth:     parse.DefaultMaxDepth,
	}
}

// LoadConfig reads a TOML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// ParseConfig reads TOML config text over the defaults.
func ParseConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	for i, o := range c.CorsOrigins {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("cors_origins[%d] is empty", i)
		}
	}
	return nil
}

func (c Config) parseOptions() []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseMaxDepth(c.MaxDepth),
		parse.ParseDuplicateKeys(c.DuplicateKeys),
	}
}
