// Package config loads drawkit's user configuration.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/drawkit/config.toml
// (~/.config/drawkit/config.toml when XDG_CONFIG_HOME is unset). A missing
// file yields [Default]. Command-line flags override every value.
//
//	[document]
//	preset = "print_a4"
//
//	[export]
//	dpi = 300
//	formats = ["svg", "dot"]
//
//	[cache]
//	enabled = true
//	ttl = "72h"
//
//	[library]
//	path = "~/drawings/library.db"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/pipeline"
)

const appName = "drawkit"

// Config is the decoded configuration file.
type Config struct {
	Document DocumentConfig `toml:"document"`
	Export   ExportConfig   `toml:"export"`
	Cache    CacheConfig    `toml:"cache"`
	Library  LibraryConfig  `toml:"library"`
}

// DocumentConfig holds defaults for new documents.
type DocumentConfig struct {
	// Preset names a canvas preset; empty uses the default 800x600 px canvas.
	Preset string `toml:"preset"`
	Author string `toml:"author"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	// DPI overrides each document's export DPI when positive.
	DPI              float64  `toml:"dpi"`
	Formats          []string `toml:"formats"`
	IncludeInvisible bool     `toml:"include_invisible"`
	Transparent      bool     `toml:"transparent"`
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	TTL     Duration `toml:"ttl"`
	// Dir overrides the cache directory.
	Dir string `toml:"dir"`
}

// LibraryConfig locates the shared shape library database.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidInput, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{Formats: []string{pipeline.FormatSVG}},
		Cache:  CacheConfig{Enabled: true, TTL: Duration{cache.TTLArtifact}},
	}
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Document.Preset != "" {
		if _, err := document.LookupPreset(c.Document.Preset); err != nil {
			return err
		}
	}
	if c.Export.DPI < 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "export.dpi must not be negative, got %g", c.Export.DPI)
	}
	if err := pipeline.ValidateFormats(c.Export.Formats); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, derrors.New(derrors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Library.Path = expandHome(cfg.Library.Path)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, derrors.Wrap(derrors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes c to path, creating parent directories.
func (c *Config) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the artifact cache directory: Cache.Dir, else
// $XDG_CACHE_HOME/drawkit, else ~/.cache/drawkit.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// LibraryPath returns the shape library database: Library.Path, else
// $XDG_DATA_HOME/drawkit/library.db, else ~/.local/share/drawkit/library.db.
func (c *Config) LibraryPath() (string, error) {
	if c.Library.Path != "" {
		return c.Library.Path, nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, "library.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "library.db"), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
