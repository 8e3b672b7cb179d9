package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/yardbook/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := cacheDir(config.Default())
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, "yardbook") {
		t.Errorf("cacheDir() = %q, should end with 'yardbook'", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir(config.Default())
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg := config.Default()
	cfg.Cache.Dir = "/srv/yardbook-cache"
	dir, err := cacheDir(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if dir != cfg.Cache.Dir {
		t.Errorf("cacheDir() = %q, want configured %q", dir, cfg.Cache.Dir)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		suffix  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "derived from input",
			input:   "course.json",
			suffix:  "_placed",
			formats: []string{"svg", "json"},
			want:    map[string]string{"svg": "course_placed.svg", "json": "course_placed.json"},
		},
		{
			name:    "single format exact path",
			output:  "out/book.svg",
			input:   "course.json",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "out/book.svg"},
		},
		{
			name:    "known extension stripped",
			output:  "book.pdf",
			input:   "course.json",
			formats: []string{"pdf", "tree"},
			want:    map[string]string{"pdf": "book.pdf", "tree": "book_tree.svg"},
		},
		{
			name:    "base path",
			output:  "book",
			input:   "course.json",
			formats: []string{"dot"},
			want:    map[string]string{"dot": "book.dot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.suffix, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf(`parseFormats("") = %v, want [svg]`, got)
	}
	got := parseFormats("svg, pdf,,json")
	if strings.Join(got, ",") != "svg,pdf,json" {
		t.Errorf("parseFormats() = %v", got)
	}
}
