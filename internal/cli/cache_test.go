package cli

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/yardbook/pkg/cache"
)

func TestCachePathCommand(t *testing.T) {
	cfgPath, dir := testConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	cfgPath, dir := testConfig(t)

	out, err := runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on a missing dir = %q", out)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"placement:a", "placement:b", "artifact:svg:c"} {
		if err := fc.Set(ctx, k, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out, err = runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	if _, ok, _ := fc.Get(ctx, "placement:a"); ok {
		t.Error("entry survived cache clear")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should remain: %v", err)
	}
}
