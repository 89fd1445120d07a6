// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads pqedit settings from defaults, a YAML file,
// PQEDIT_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"pqedit/fileio"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PQEDIT_"

// Default values.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultCompression  = "snappy"
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 768
)

// ErrInvalidConfig is wrapped by Validate errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

// Config holds all pqedit settings.
type Config struct {
	LogLevel          string       `koanf:"log_level"`
	LogFormat         string       `koanf:"log_format"`
	Compression       string       `koanf:"compression"`
	RowGroupSize      int64        `koanf:"row_group_size"`
	RepairParallelism int          `koanf:"repair_parallelism"`
	Watch             bool         `koanf:"watch"`
	Window            WindowConfig `koanf:"window"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"log_level":          DefaultLogLevel,
		"log_format":         DefaultLogFormat,
		"compression":        DefaultCompression,
		"row_group_size":     fileio.DefaultRowGroupSize,
		"repair_parallelism": 0,
		"watch":              true,
		"window.width":       DefaultWindowWidth,
		"window.height":      DefaultWindowHeight,
	}
}

// DefaultFile returns the per-user config file location,
// $XDG_CONFIG_HOME/pqedit/config.yaml on Linux.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pqedit", "config.yaml")
}

// Load builds the configuration. cfgFile names an explicit YAML file that
// must exist; when empty the default file is read if present. Only flags
// that were set on the command line override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := cfgFile
	if used == "" {
		if def := DefaultFile(); def != "" {
			if _, err := os.Stat(def); err == nil {
				used = def
			}
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: PQEDIT_ROW_GROUP_SIZE -> row_group_size,
	// PQEDIT_WINDOW_WIDTH -> window.width
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "window_"); ok {
		return "window." + rest
	}
	return key
}

func flagKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")
	if rest, ok := strings.CutPrefix(key, "window_"); ok {
		return "window." + rest
	}
	return key
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := fileio.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RowGroupSize <= 0 {
		return fmt.Errorf("%w: row_group_size must be positive, got %d", ErrInvalidConfig, c.RowGroupSize)
	}
	if c.RepairParallelism < 0 {
		return fmt.Errorf("%w: repair_parallelism must not be negative", ErrInvalidConfig)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	return nil
}

// FileOptions converts the file settings into fileio options.
func (c *Config) FileOptions(logger *slog.Logger) (fileio.Options, error) {
	codec, err := fileio.ParseCompression(c.Compression)
	if err != nil {
		return fileio.Options{}, err
	}
	return fileio.Options{
		Compression:  codec,
		RowGroupSize: c.RowGroupSize,
		Parallelism:  c.RepairParallelism,
		Logger:       logger,
	}, nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Compression:  DefaultCompression,
		RowGroupSize: fileio.DefaultRowGroupSize,
		Watch:        true,
		Window:       WindowConfig{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
	}
}
