// Package config implements the YAML configuration file shared by pollyc
// and pollyls.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/cache"
)

type Cache struct {
	Dir  string `yaml:"dir"`  // Directory of the on-disk cache. Empty disables it.
	Size int    `yaml:"size"` // Number of results kept in memory. Default: 256
}

type Server struct {
	MetricsAddr string `yaml:"metrics-addr"` // Address of the Prometheus endpoint. Empty disables it.
}

type Config struct {
	Target   string `yaml:"target"`   // One of glsl, vulkan-glsl, hlsl, msl. Default: glsl
	Optimize *bool  `yaml:"optimize"` // Default: true
	Debug    bool   `yaml:"debug"`
	LogFile  string `yaml:"log-file"`

	Cache  Cache  `yaml:"cache"`
	Server Server `yaml:"server"`
}

// FromFile reads the configuration at path. Unknown keys are errors.
func FromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

// Parse decodes a configuration document. An empty document yields the
// defaults.
func Parse(raw []byte) (*Config, error) {
	parsed := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(parsed); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := parsed.Options(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Options returns the compile options the file selects.
func (c *Config) Options() (shaderc.Options, error) {
	opts := shaderc.DefaultOptions()
	if c.Target != "" {
		t, err := shaderc.ParseTarget(c.Target)
		if err != nil {
			return shaderc.Options{}, err
		}
		opts.Target = t
	}
	if c.Optimize != nil {
		opts.Optimize = *c.Optimize
	}
	opts.DebugInfo = c.Debug
	return opts, nil
}

// CacheOptions returns the options of the compile cache.
func (c *Config) CacheOptions(logger *log.Logger) cache.Options {
	return cache.Options{
		Dir:    c.Cache.Dir,
		Size:   c.Cache.Size,
		Logger: logger,
	}
}
