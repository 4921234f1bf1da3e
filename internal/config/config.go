// Package config holds the engine settings shared by the compiler, the cascade and the
// layout solver.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given, relative to the working
// directory.
const DefaultPath = "config/style.json"

// EnvPrefix prefixes every environment override, e.g. STYLE_MAX_DEPTH.
const EnvPrefix = "STYLE_"

// Config is persisted as JSON, or YAML when the file name ends in .yaml or .yml.
type Config struct {
	// MaxDepth bounds parser, interpreter and layout recursion.
	MaxDepth        int     `json:"max_depth" yaml:"max_depth"`
	MaxIterations   int     `json:"max_iterations" yaml:"max_iterations"`
	MaxLayoutPasses int     `json:"max_layout_passes" yaml:"max_layout_passes"`
	ViewportWidth   float32 `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight  float32 `json:"viewport_height" yaml:"viewport_height"`
	// FontSize is the root font size in pixels.
	FontSize    float32 `json:"font_size" yaml:"font_size"`
	PixelsPerCM float32 `json:"pixels_per_cm" yaml:"pixels_per_cm"`
	LogPath     string  `json:"log_path,omitempty" yaml:"log_path,omitempty"`
	// ImportRoot is the directory "/"-rooted imports resolve against.
	ImportRoot string `json:"import_root,omitempty" yaml:"import_root,omitempty"`
	// Font names a TrueType or OpenType font searched for under FontDirs. Empty uses
	// the built-in bitmap font.
	Font     string   `json:"font,omitempty" yaml:"font,omitempty"`
	FontDirs []string `json:"font_dirs,omitempty" yaml:"font_dirs,omitempty"`
	Debug    bool     `json:"debug" yaml:"debug"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		MaxDepth:        64,
		MaxIterations:   10000,
		MaxLayoutPasses: 4,
		ViewportWidth:   800,
		ViewportHeight:  600,
		FontSize:        16,
		PixelsPerCM:     96 / 2.54,
		LogPath:         "logs/style.txt",
		ImportRoot:      ".",
		FontDirs:        []string{"assets/fonts"},
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads settings from path. Fields missing from the file keep their defaults. A
// missing file yields Default() and no error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Save writes settings to path, creating its directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "\t")
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from STYLE_* environment variables named after the JSON
// keys, e.g. STYLE_VIEWPORT_WIDTH. Malformed values are skipped and reported together.
func ApplyEnv(c *Config) error {
	var errs []error
	lookup := func(key string) (string, bool) {
		return os.LookupEnv(EnvPrefix + strings.ToUpper(key))
	}
	integer := func(key string, dst *int) {
		if s, ok := lookup(key); ok {
			v, err := strconv.Atoi(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err))
				return
			}
			*dst = v
		}
	}
	float := func(key string, dst *float32) {
		if s, ok := lookup(key); ok {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err))
				return
			}
			*dst = float32(v)
		}
	}
	text := func(key string, dst *string) {
		if s, ok := lookup(key); ok {
			*dst = s
		}
	}
	boolean := func(key string, dst *bool) {
		if s, ok := lookup(key); ok {
			v, err := strconv.ParseBool(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err))
				return
			}
			*dst = v
		}
	}
	integer("max_depth", &c.MaxDepth)
	integer("max_iterations", &c.MaxIterations)
	integer("max_layout_passes", &c.MaxLayoutPasses)
	float("viewport_width", &c.ViewportWidth)
	float("viewport_height", &c.ViewportHeight)
	float("font_size", &c.FontSize)
	float("pixels_per_cm", &c.PixelsPerCM)
	text("log_path", &c.LogPath)
	text("import_root", &c.ImportRoot)
	text("font", &c.Font)
	boolean("debug", &c.Debug)
	return errors.Join(errs...)
}
