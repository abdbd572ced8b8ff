// Package config loads and validates the optional zonememstat agent
// configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up when no path is given.
const DefaultFile = ".zonememstat"

// Default values for collection configuration.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxLine   = 64 << 10
	DefaultMaxStderr = 64 << 10
	DefaultCacheSize = 5
)

// MalformedPolicy decides what happens when a line of zonememstat output
// cannot be parsed.
type MalformedPolicy string

const (
	// PolicySkip records the malformed line as a diagnostic and keeps
	// collecting. This is the default: a monitoring agent should not
	// lose a whole snapshot to one bad line.
	PolicySkip MalformedPolicy = "skip"
	// PolicyStrict aborts the whole collection on the first malformed line.
	PolicyStrict MalformedPolicy = "strict"
)

// DefaultArgv is the command line invoked when no override is
// configured. -H suppresses the header, -a includes all zones; the
// global zone is always reported first.
var DefaultArgv = []string{"zonememstat", "-H", "-a"}

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int      `yaml:"version"`
	Command      string   `yaml:"command"`      // external binary override
	Args         []string `yaml:"args"`         // argument override
	RawTimeout   string   `yaml:"timeout"`      // e.g. "30s", "2m"
	RawMaxLine   int      `yaml:"max_line"`     // bytes
	RawMaxStderr int      `yaml:"max_stderr"`   // bytes
	OnMalformed  string   `yaml:"on_malformed"` // skip | strict
	History      string   `yaml:"history"`      // bolt database path; empty disables
	RawCache     int      `yaml:"cache"`        // snapshot LRU capacity
}

// Argv returns the command line to invoke, falling back to DefaultArgv.
// A configured command without args runs with the default flags.
func (c *Config) Argv() []string {
	if c.Command == "" {
		return DefaultArgv
	}
	argv := []string{c.Command}
	if c.Args != nil {
		return append(argv, c.Args...)
	}
	return append(argv, DefaultArgv[1:]...)
}

// Timeout returns the configured timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxLine returns the configured per-line size cap or the default.
func (c *Config) MaxLine() int {
	if c.RawMaxLine > 0 {
		return c.RawMaxLine
	}
	return DefaultMaxLine
}

// MaxStderr returns the configured stderr capture cap or the default.
func (c *Config) MaxStderr() int {
	if c.RawMaxStderr > 0 {
		return c.RawMaxStderr
	}
	return DefaultMaxStderr
}

// Policy returns the malformed-line policy. Unknown values fall back
// to PolicySkip.
func (c *Config) Policy() MalformedPolicy {
	if MalformedPolicy(c.OnMalformed) == PolicyStrict {
		return PolicyStrict
	}
	return PolicySkip
}

// CacheSize returns the snapshot LRU capacity, falling back to the default.
func (c *Config) CacheSize() int {
	if c.RawCache > 0 {
		return c.RawCache
	}
	return DefaultCacheSize
}

// Load reads the configuration file at path. If path is empty,
// DefaultFile in the current directory is tried. A missing file is not
// an error; a default Config is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
