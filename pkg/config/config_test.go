package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/geom"
	"github.com/matzehuels/yardbook/pkg/placement"
)

func TestDefaultMatchesPlacementDefaults(t *testing.T) {
	opts, err := Default().PlacementOptions(nil)
	if err != nil {
		t.Fatalf("PlacementOptions() error: %v", err)
	}
	if opts.Placement != placement.DefaultPlacementBox {
		t.Errorf("Placement = %+v, want %+v", opts.Placement, placement.DefaultPlacementBox)
	}
	if opts.Detail != placement.DefaultDetailBox {
		t.Errorf("Detail = %+v, want %+v", opts.Detail, placement.DefaultDetailBox)
	}
	if opts.LeftInset != placement.DefaultLeftInset {
		t.Errorf("LeftInset = %g, want %g", opts.LeftInset, placement.DefaultLeftInset)
	}
	if opts.Direction != geom.Up {
		t.Errorf("Direction = %v, want up", opts.Direction)
	}
	if opts.FirstUnit != 1 || opts.LastUnit != 18 {
		t.Errorf("range = %d..%d, want 1..18", opts.FirstUnit, opts.LastUnit)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.TTL.Duration != 168*time.Hour {
		t.Errorf("TTL = %v, want 168h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yardbook.toml")
	data := `
units = "mm"
last_unit = 9
direction = "right"

[placement]
x = 10
y = 10
width = 90
height = 170
buffer = 0.85

[stroke]
mode = "target"
target_width = 0.5
target_units = "pt"

[layout]
unit_pattern = "h%d"
terrain_labels = ["fairway"]

[cache]
backend = "none"
ttl = "2h"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LastUnit != 9 || cfg.Cache.TTL.Duration != 2*time.Hour || cfg.Cache.Backend != BackendNone {
		t.Errorf("decoded %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Detail.Buffer != 0.80 || cfg.Layout.GreenPattern != "green_%02d" {
		t.Errorf("defaults lost: detail=%+v layout=%+v", cfg.Detail, cfg.Layout)
	}

	opts, err := cfg.PlacementOptions(nil)
	if err != nil {
		t.Fatalf("PlacementOptions() error: %v", err)
	}
	mm := 96 / 25.4
	if math.Abs(opts.Placement.Width-90*mm) > 1e-9 || opts.Placement.Buffer != 0.85 {
		t.Errorf("Placement = %+v", opts.Placement)
	}
	if math.Abs(opts.TargetStroke-0.5*96/72) > 1e-12 {
		t.Errorf("TargetStroke = %g", opts.TargetStroke)
	}
	if opts.Direction != geom.Right || opts.StrokeMode != placement.StrokeTarget {
		t.Errorf("Direction = %v, StrokeMode = %v", opts.Direction, opts.StrokeMode)
	}
	r, ok := opts.Resolver.(*placement.LabelResolver)
	if !ok || r.UnitID(3) != "h3" || r.TerrainLabels[0] != "fairway" {
		t.Errorf("Resolver = %#v", opts.Resolver)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", `colour = "red"`},
		{"bad units", `units = "furlong"`},
		{"bad direction", `direction = "sideways"`},
		{"bad buffer", "[detail]\nbuffer = 1.5"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad stroke mode", "[stroke]\nmode = \"bold\""},
		{"bad pattern", "[layout]\nunit_pattern = \"hole\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"syntax", `units = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YARDBOOK_DIRECTION", "down")
	t.Setenv("YARDBOOK_CACHE_BACKEND", "redis")
	t.Setenv("YARDBOOK_REDIS_ADDR", "cache:6379")
	t.Setenv("YARDBOOK_SERVER_ADDR", ":9090")
	t.Setenv("YARDBOOK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Direction != "down" || cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.Addr != ":9090" || cfg.Level().String() != "debug" {
		t.Errorf("Addr = %q, Level = %v", cfg.Server.Addr, cfg.Level())
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(buf.String(), `ttl = "168h0m0s"`) {
		t.Errorf("encoded ttl missing:\n%s", buf.String())
	}

	cfg, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if cfg.String() != Default().String() || cfg.Placement != Default().Placement {
		t.Errorf("round trip changed config: %v", cfg)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{1, "in", "px", 96},
		{25.4, "mm", "in", 1},
		{72, "pt", "in", 1},
		{2.54, "cm", "mm", 25.4},
		{48, "px", "in", 0.5},
	}
	for _, tt := range tests {
		got, err := Convert(tt.v, tt.from, tt.to)
		if err != nil {
			t.Fatalf("Convert(%g, %s, %s) error: %v", tt.v, tt.from, tt.to, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Convert(%g, %s, %s) = %g, want %g", tt.v, tt.from, tt.to, got, tt.want)
		}
	}
	if _, err := Convert(1, "in", "ell"); err == nil {
		t.Error("Convert() to unknown unit should fail")
	}
}
