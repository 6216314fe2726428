// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

// Package config loads pgfuncdoc settings from defaults, a YAML file, .env,
// environment variables and command line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/woozymasta/pgfuncdoc"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "pgfuncdoc.yaml"
	// FileNameAlt is the alternate config file name.
	FileNameAlt = "pgfuncdoc.yml"
	// EnvFileName is the dotenv file looked up next to the config file.
	EnvFileName = ".env"
	// EnvPrefix prefixes environment variables, PGFUNCDOC_COPY_RESET -> copy_reset.
	EnvPrefix = "PGFUNCDOC_"

	// DefaultAddr is the page server listen address.
	DefaultAddr = "127.0.0.1:8080"
)

var (
	// ErrLoadConfig is returned when one configuration layer cannot be read.
	ErrLoadConfig = errors.New("load config")
	// ErrInvalidConfig is returned when decoded values are out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the merged pgfuncdoc configuration.
type Config struct {
	// Title overrides the page title.
	Title string `koanf:"title"`
	// Catalog is a catalog file path; the bundled catalog is used when empty.
	Catalog string `koanf:"catalog"`
	// Content is a static content YAML path overlaid on bundled content.
	Content string `koanf:"content"`
	// Template is a custom page template path.
	Template string `koanf:"template"`
	// Format is the output format, html or markdown.
	Format string `koanf:"format"`
	// Style is the chroma style name.
	Style string `koanf:"style"`
	// ExampleFormat is json or yaml.
	ExampleFormat string `koanf:"example_format"`
	// LineNumbers enables line numbers in the example queries block.
	LineNumbers bool `koanf:"line_numbers"`
	// CopyReset is how long the copy confirmation stays visible.
	CopyReset time.Duration `koanf:"copy_reset"`
	// Addr is the page server listen address.
	Addr string `koanf:"addr"`
	// Watch re-renders on file changes while serving.
	Watch bool `koanf:"watch"`
	// Open launches the system browser after the server starts.
	Open bool `koanf:"open"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// LoadOptions selects where configuration layers come from.
type LoadOptions struct {
	// File is an explicit config path; Dir is searched when empty.
	File string
	// Dir is the directory searched for config and .env files; "." when empty.
	Dir string
	// Environ replaces os.Environ for the environment layer.
	Environ []string
	// Overrides holds explicitly set command line values keyed like Config tags.
	Overrides map[string]any
}

// Defaults returns the default layer.
func Defaults() map[string]any {
	return map[string]any{
		"format":         string(pgfuncdoc.FormatHTML),
		"style":          "github",
		"example_format": string(pgfuncdoc.ExampleFormatJSON),
		"line_numbers":   true,
		"copy_reset":     pgfuncdoc.DefaultCopyResetDelay.String(),
		"addr":           DefaultAddr,
		"watch":          false,
		"open":           false,
		"verbose":        false,
	}
}

// Load merges all layers into Config.
// Precedence (highest to lowest): overrides > environment > .env > file > defaults.
func Load(opt LoadOptions) (*Config, error) {
	k := koanf.New(".")

	dir := strings.TrimSpace(opt.Dir)
	if dir == "" {
		dir = "."
	}

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %w", ErrLoadConfig, err)
	}

	configFile, err := findConfigFile(opt.File, dir)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %q: %w", ErrLoadConfig, configFile, err)
		}

		dir = filepath.Dir(configFile)
	}

	dotenv, err := readDotEnv(filepath.Join(dir, EnvFileName))
	if err != nil {
		return nil, err
	}

	if len(dotenv) > 0 {
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, EnvFileName, err)
		}
	}

	if err := k.Load(environProvider(opt.Environ), nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	if len(opt.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opt.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("%w: overrides: %w", ErrLoadConfig, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLoadConfig, err)
	}

	cfg.File = configFile
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be checked at render time.
func (c *Config) Validate() error {
	if c.CopyReset < 0 {
		return fmt.Errorf("%w: copy_reset must not be negative, got %s", ErrInvalidConfig, c.CopyReset)
	}

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalidConfig)
	}

	return nil
}

// RenderOptions converts config into page render options.
// Content and template files are read by the caller.
func (c *Config) RenderOptions() pgfuncdoc.Options {
	return pgfuncdoc.Options{
		Title:           c.Title,
		Format:          pgfuncdoc.Format(c.Format),
		Style:           c.Style,
		HideLineNumbers: !c.LineNumbers,
		ExampleFormat:   pgfuncdoc.ExampleFormat(c.ExampleFormat),
		CopyResetDelay:  c.CopyReset,
	}
}

// WatchedFiles returns user files whose change should trigger a re-render.
func (c *Config) WatchedFiles() []string {
	var files []string
	for _, path := range []string{c.Catalog, c.Content, c.Template, c.File} {
		if path = strings.TrimSpace(path); path != "" {
			files = append(files, path)
		}
	}

	return files
}

// findConfigFile returns explicit path or the first config file found in dir.
func findConfigFile(explicit, dir string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: file %q: %w", ErrLoadConfig, explicit, err)
		}

		return explicit, nil
	}

	for _, name := range []string{FileName, FileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

// readDotEnv reads prefixed keys from a dotenv file without touching the process environment.
func readDotEnv(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	out := make(map[string]any, len(values))
	for name, value := range values {
		if key, ok := envKey(name); ok {
			out[key] = value
		}
	}

	return out, nil
}

// environProvider reads prefixed variables from environ, or from the process when nil.
func environProvider(environ []string) koanf.Provider {
	if environ == nil {
		return env.Provider(EnvPrefix, ".", func(s string) string {
			key, _ := envKey(s)
			return key
		})
	}

	values := make(map[string]any)
	for _, pair := range environ {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if key, ok := envKey(name); ok {
			values[key] = value
		}
	}

	return confmap.Provider(values, ".")
}

// envKey maps PGFUNCDOC_EXAMPLE_FORMAT to example_format.
func envKey(name string) (string, bool) {
	if !strings.HasPrefix(name, EnvPrefix) {
		return "", false
	}

	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), true
}
