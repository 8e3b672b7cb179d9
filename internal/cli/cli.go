// Package cli implements the yardbook command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/config"
	"github.com/matzehuels/yardbook/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "yardbook"

	// apiKeyPrefix scopes server cache entries away from CLI entries.
	apiKeyPrefix = "api:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
	// verbose pins the log level to debug regardless of the config file.
	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level == LogDebug
}

// loadConfig reads the --config file, or the per-user file when the flag is
// unset. The config's log level applies unless --verbose was given.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if !c.verbose {
		c.Logger.SetLevel(cfg.Level())
	}
	c.Logger.Debug("loaded config", "path", path, "config", cfg.String())
	return cfg, nil
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner on the configured cache backend.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/yardbook/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// formatExt maps an output format to its file suffix.
var formatExt = map[string]string{
	pipeline.FormatJSON: ".json",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatPDF:  ".pdf",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatTree: "_tree.svg",
}

// basePath derives the base output path. With no output it is the input
// without extension plus suffix; a known format extension on output is
// stripped.
func basePath(output, input, suffix string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
	}
	ext := filepath.Ext(output)
	for _, e := range formatExt {
		if e == ext {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPaths names one file per format. A single format with an explicit
// output path writes exactly there.
func outputPaths(output, input, suffix string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input, suffix)
	for _, f := range formats {
		paths[f] = base + formatExt[f]
	}
	return paths
}

// writeArtifacts writes every artifact to its path in format order.
func writeArtifacts(artifacts map[string][]byte, paths map[string]string, formats []string) error {
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f, err)
		}
		printFile(paths[f])
	}
	return nil
}
