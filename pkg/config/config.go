// Package config loads yardbook settings from a TOML file and the environment.
//
// Settings are layered: built-in defaults, then the file, then environment
// variables prefixed with YARDBOOK_. Lengths in the file are expressed in
// the configured units and converted to document user units (96 per inch)
// by [Config.PlacementOptions].
//
//	cfg, err := config.Load("yardbook.toml")
//	if err != nil {
//	    return err
//	}
//	opts, err := cfg.PlacementOptions(logger)
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/placement"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "YARDBOOK"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete set of yardbook settings.
type Config struct {
	// Units is the unit of every length below: in, mm, cm, pt or px.
	Units           string  `toml:"units"`
	FirstUnit       int     `toml:"first_unit"`
	LastUnit        int     `toml:"last_unit"`
	Direction       string  `toml:"direction"`
	ResetTransforms bool    `toml:"reset_transforms"`
	LeftInset       float64 `toml:"left_inset"`
	LogLevel        string  `toml:"log_level"`

	Placement placement.TargetBox `toml:"placement"`
	Detail    placement.TargetBox `toml:"detail"`
	Stroke    Stroke              `toml:"stroke"`
	Layout    Layout              `toml:"layout"`
	Cache     Cache               `toml:"cache"`
	Server    Server              `toml:"server"`
}

// Stroke configures stroke handling.
type Stroke struct {
	Mode        string  `toml:"mode"`
	TargetWidth float64 `toml:"target_width"`
	TargetUnits string  `toml:"target_units"`
}

// Layout names the parts of a course document.
type Layout struct {
	UnitPattern     string   `toml:"unit_pattern"`
	GreenPattern    string   `toml:"green_pattern"`
	TerrainLabels   []string `toml:"terrain_labels"`
	PlacementParent string   `toml:"placement_parent"`
	DetailParent    string   `toml:"detail_parent"`
	DetailAnchor    string   `toml:"detail_anchor"`
}

// Cache configures result caching.
type Cache struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir,omitempty"`
	RedisAddr string   `toml:"redis_addr"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string such as "168h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// env holds the supported environment overrides.
type env struct {
	Direction    string `envconfig:"DIRECTION"`
	StrokeMode   string `envconfig:"STROKE_MODE"`
	CacheBackend string `envconfig:"CACHE_BACKEND"`
	CacheDir     string `envconfig:"CACHE_DIR"`
	RedisAddr    string `envconfig:"REDIS_ADDR"`
	ServerAddr   string `envconfig:"SERVER_ADDR"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
}

// Default returns the settings of a 4.25×11 inch, 18-hole yardage book.
func Default() Config {
	return Config{
		Units:           "in",
		FirstUnit:       placement.DefaultFirstUnit,
		LastUnit:        placement.DefaultLastUnit,
		Direction:       "up",
		ResetTransforms: true,
		LeftInset:       0.5,
		LogLevel:        "info",
		Placement:       placement.TargetBox{X: 0.25, Y: 0.25, Width: 3.75, Height: 6.75, Buffer: 0.90},
		Detail:          placement.TargetBox{X: 0.25, Y: 7.0, Width: 3.75, Height: 3.75, Buffer: 0.80},
		Stroke:          Stroke{Mode: "compensate", TargetWidth: 0.25, TargetUnits: "mm"},
		Layout: Layout{
			UnitPattern:     placement.DefaultUnitPattern,
			GreenPattern:    placement.DefaultGreenPattern,
			TerrainLabels:   slices.Clone(placement.DefaultTerrainLabels),
			PlacementParent: placement.DefaultPlacementParent,
			DetailParent:    placement.DefaultDetailParent,
			DetailAnchor:    placement.DefaultDetailAnchor,
		},
		Cache:  Cache{Backend: BackendFile, TTL: Duration{7 * 24 * time.Hour}, RedisAddr: "localhost:6379"},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the per-user config file location,
// $XDG_CONFIG_HOME/yardbook/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "yardbook", "config.toml"), nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty or missing path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		default:
			if extra := md.Undecoded(); len(extra) > 0 {
				return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %v", path, extra)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults without consulting the
// environment.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Direction, e.Direction)
	set(&c.Stroke.Mode, e.StrokeMode)
	set(&c.Cache.Backend, e.CacheBackend)
	set(&c.Cache.Dir, e.CacheDir)
	set(&c.Cache.RedisAddr, e.RedisAddr)
	set(&c.Server.Addr, e.ServerAddr)
	set(&c.LogLevel, e.LogLevel)
	return nil
}

// Validate checks every setting, including the placement options they
// produce.
func (c Config) Validate() error {
	if _, err := PixelsPer(c.Units); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q", c.LogLevel)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	_, err := c.PlacementOptions(nil)
	return err
}

// Level returns the configured log level, Info when it does not parse.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// PlacementOptions converts the settings into validated engine options in
// document user units. logger may be nil.
func (c Config) PlacementOptions(logger *log.Logger) (placement.Options, error) {
	k, err := PixelsPer(c.Units)
	if err != nil {
		return placement.Options{}, err
	}
	dir, err := geom.ParseDirection(c.Direction)
	if err != nil {
		return placement.Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "direction")
	}
	mode, err := placement.ParseStrokeMode(c.Stroke.Mode)
	if err != nil {
		return placement.Options{}, err
	}
	target := 0.0
	if mode == placement.StrokeTarget {
		tk, err := PixelsPer(c.Stroke.TargetUnits)
		if err != nil {
			return placement.Options{}, err
		}
		target = c.Stroke.TargetWidth * tk
	}

	opts := placement.Options{
		Placement:       scaleBox(c.Placement, k),
		Detail:          scaleBox(c.Detail, k),
		Direction:       dir,
		FirstUnit:       c.FirstUnit,
		LastUnit:        c.LastUnit,
		ResetTransforms: c.ResetTransforms,
		LeftInset:       c.LeftInset * k,
		StrokeMode:      mode,
		TargetStroke:    target,
		PlacementParent: c.Layout.PlacementParent,
		DetailParent:    c.Layout.DetailParent,
		DetailAnchor:    c.Layout.DetailAnchor,
		Resolver: &placement.LabelResolver{
			UnitPattern:   c.Layout.UnitPattern,
			GreenPattern:  c.Layout.GreenPattern,
			TerrainLabels: slices.Clone(c.Layout.TerrainLabels),
		},
		Logger: logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return placement.Options{}, err
	}
	return opts, nil
}

func scaleBox(b placement.TargetBox, k float64) placement.TargetBox {
	return placement.TargetBox{X: b.X * k, Y: b.Y * k, Width: b.Width * k, Height: b.Height * k, Buffer: b.Buffer}
}

// PixelsPer returns the number of user units in one unit of u.
func PixelsPer(u string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(u)) {
	case "in", "inch", "inches":
		return placement.PixelsPerInch, nil
	case "mm":
		return placement.PixelsPerInch / 25.4, nil
	case "cm":
		return placement.PixelsPerInch / 2.54, nil
	case "pt":
		return placement.PixelsPerInch / 72, nil
	case "px", "", "uu":
		return 1, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown unit %q: want in, mm, cm, pt or px", u)
}

// Convert converts v from unit from to unit to.
func Convert(v float64, from, to string) (float64, error) {
	a, err := PixelsPer(from)
	if err != nil {
		return 0, err
	}
	b, err := PixelsPer(to)
	if err != nil {
		return 0, err
	}
	return v * a / b, nil
}

// String summarizes the settings on one line.
func (c Config) String() string {
	return fmt.Sprintf("units=%s holes=%d..%d direction=%s stroke=%s cache=%s",
		c.Units, c.FirstUnit, c.LastUnit, c.Direction, c.Stroke.Mode, c.Cache.Backend)
}
