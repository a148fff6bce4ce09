package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Journal drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config describes a simulated site and the surfaces serving it.
type Config struct {
	LogLevel       string            `mapstructure:"log_level" yaml:"log_level"`
	InitialPath    string            `mapstructure:"initial_path" yaml:"initial_path"`
	PreserveStyles bool              `mapstructure:"preserve_styles" yaml:"preserve_styles"`
	Pages          map[string]string `mapstructure:"pages" yaml:"pages"`
	Animations     []Animation       `mapstructure:"animations" yaml:"animations"`
	Camera         Camera            `mapstructure:"camera" yaml:"camera"`
	Viewport       Viewport          `mapstructure:"viewport" yaml:"viewport"`
	Journal        Journal           `mapstructure:"journal" yaml:"journal"`
	Server         Server            `mapstructure:"server" yaml:"server"`
	Metrics        bool              `mapstructure:"metrics" yaml:"metrics"`
}

// Animation is a simulated exit animation registered on the site.
type Animation struct {
	Name     string        `mapstructure:"name" yaml:"name"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Kill     bool          `mapstructure:"kill" yaml:"kill,omitempty"`
	Index    *int          `mapstructure:"index" yaml:"index,omitempty"`
	// Fail makes the animation return an error, which stalls the site.
	Fail bool `mapstructure:"fail" yaml:"fail,omitempty"`
}

// Camera is the scene camera used for projections.
type Camera struct {
	FOV      float32 `mapstructure:"fov" yaml:"fov"`
	Distance float32 `mapstructure:"distance" yaml:"distance"`
}

// Viewport is the simulated device viewport in pixels.
type Viewport struct {
	Width  float32 `mapstructure:"width" yaml:"width"`
	Height float32 `mapstructure:"height" yaml:"height"`
}

// Journal selects where completed cycles are recorded.
type Journal struct {
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Addr     string `mapstructure:"addr" yaml:"addr,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	DB       int    `mapstructure:"db" yaml:"db,omitempty"`
	Key      string `mapstructure:"key" yaml:"key,omitempty"`
	Limit    int    `mapstructure:"limit" yaml:"limit"`
}

// Server configures the HTTP control surface.
type Server struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration: three pages and one fade.
func Default() Config {
	return Config{
		LogLevel:    "info",
		InitialPath: "/",
		Camera:      Camera{FOV: 45, Distance: 10},
		Viewport:    Viewport{Width: 1280, Height: 720},
		Journal:     Journal{Driver: DriverMemory, Limit: 100},
		Server:      Server{Addr: ":8080", ShutdownTimeout: 5 * time.Second},
		Metrics:     true,
	}
}

// DefaultPages is used when a configuration declares no pages.
func DefaultPages() map[string]string {
	return map[string]string{
		"/":        "# Home\n\nWelcome. Pick a page to watch the curtain fall.",
		"/about":   "# About\n\nThe previous page stays on screen until every exit animation is done.",
		"/contact": "# Contact\n\nNothing to see here, the transition is the point.",
	}
}

// DefaultAnimations is used when a configuration declares no animations.
func DefaultAnimations() []Animation {
	return []Animation{{Name: "fade", Duration: 300 * time.Millisecond}}
}

// Load reads a YAML or TOML file on top of Default. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.fill()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	cfg.fill()
	return cfg, cfg.Validate()
}

// Decode applies a generic map (as produced by a YAML or TOML parser) onto cfg.
// Durations may be written as strings ("250ms") or integer nanoseconds.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) fill() {
	if len(c.Pages) == 0 {
		c.Pages = DefaultPages()
	}
	if c.Animations == nil {
		c.Animations = DefaultAnimations()
	}
	if c.Journal.Driver == "" {
		c.Journal.Driver = DriverMemory
	}
}

// Validate reports every problem found in c.
func (c Config) Validate() error {
	var errs []error

	if !strings.HasPrefix(c.InitialPath, "/") {
		errs = append(errs, fmt.Errorf("initial_path %q must start with /", c.InitialPath))
	} else if _, ok := c.Pages[c.InitialPath]; !ok {
		errs = append(errs, fmt.Errorf("initial_path %q has no page", c.InitialPath))
	}
	for path := range c.Pages {
		if !strings.HasPrefix(path, "/") {
			errs = append(errs, fmt.Errorf("page %q must start with /", path))
		}
	}

	seen := make(map[string]bool)
	for i, a := range c.Animations {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("animations[%d]: name is required", i))
		} else if seen[a.Name] {
			errs = append(errs, fmt.Errorf("animations[%d]: duplicate name %q", i, a.Name))
		}
		seen[a.Name] = true
		if a.Duration < 0 {
			errs = append(errs, fmt.Errorf("animation %q: negative duration", a.Name))
		}
	}

	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov %v must be within (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Distance <= 0 {
		errs = append(errs, errors.New("camera.distance must be positive"))
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		errs = append(errs, errors.New("viewport dimensions must not be negative"))
	}

	switch c.Journal.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Journal.Addr == "" {
			errs = append(errs, errors.New("journal.addr is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal driver %q", c.Journal.Driver))
	}
	if c.Journal.Limit < 0 {
		errs = append(errs, errors.New("journal.limit must not be negative"))
	}

	return errors.Join(errs...)
}
