package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/observability"
	"github.com/matzehuels/yardbook/pkg/placement"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// Cache key types reported to observability hooks.
const (
	keyTypePlacement = "placement"
	keyTypeArtifact  = "artifact"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests as long as its Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default expiry of every entry when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer selects the default keyer, a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// placedEntry is the cached form of the placement stage.
type placedEntry struct {
	Document json.RawMessage   `json:"document"`
	Hash     string            `json:"hash"`
	Report   *placement.Report `json:"report"`
}

// Execute runs decode → place → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{DocumentHash: cache.Hash(opts.Document)}

	placeStart := time.Now()
	doc, placedHash, report, hit, err := r.PlaceWithCacheInfo(ctx, result.DocumentHash, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Report = report
	result.PlacementHash = placedHash
	result.CacheInfo.PlaceHit = hit
	result.Stats.PlaceTime = time.Since(placeStart)
	result.Stats.NodeCount = doc.Len()
	result.Stats.Units = len(report.Units)
	result.Stats.Placed = report.Placed
	result.Stats.Failed = report.Failed

	r.Logger.Info("placed units",
		"placed", report.Placed,
		"failed", report.Failed,
		"warnings", report.Warnings,
		"cached", hit,
		"duration", result.Stats.PlaceTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, result.PlacementHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode parses a JSON document, reporting to the pipeline hooks.
func (r *Runner) Decode(ctx context.Context, data []byte) (*scene.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, len(data))
	start := time.Now()

	doc, err := scene.Decode(bytes.NewReader(data))
	nodes := 0
	if doc != nil {
		nodes = doc.Len()
	}
	hooks.OnDecodeComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("decoded document", "nodes", nodes, "bytes", len(data))
	return doc, nil
}

// PlaceWithCacheInfo returns the placed document, the hash of its JSON
// encoding and the run report. hit reports whether they came from the cache.
// A canceled run returns ctx's error and the partial report; it is never
// cached.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, docHash string, opts Options) (doc *scene.Document, placedHash string, report *placement.Report, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", nil, false, err
	}
	key := r.Keyer.PlacementKey(docHash, opts.PlacementKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var entry placedEntry
			if err := json.Unmarshal(data, &entry); err == nil && entry.Report != nil {
				if doc, err := scene.Unmarshal(entry.Document); err == nil {
					hooks.OnCacheHit(ctx, keyTypePlacement)
					return doc, entry.Hash, entry.Report, true, nil
				}
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, keyTypePlacement)
	}

	doc, err = r.Decode(ctx, opts.Document)
	if err != nil {
		return nil, "", nil, false, fmt.Errorf("decode: %w", err)
	}
	engine, err := placement.New(opts.Placement)
	if err != nil {
		return nil, "", nil, false, err
	}
	report, err = engine.Run(ctx, doc)
	if err != nil {
		return nil, "", report, false, fmt.Errorf("place: %w", err)
	}

	placed, err := scene.Marshal(doc)
	if err != nil {
		return nil, "", nil, false, fmt.Errorf("encode placed document: %w", err)
	}
	placedHash = cache.Hash(placed)
	if data, err := json.Marshal(placedEntry{Document: placed, Hash: placedHash, Report: report}); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.PlacementTTL)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypePlacement, len(data))
		}
	}
	return doc, placedHash, report, false, nil
}

// RenderWithCacheInfo renders every requested format. hit is true only when
// all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *scene.Document, placementHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(placementHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	pipeHooks := observability.Pipeline()
	pipeHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, doc, renderOpts)
	pipeHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(placementHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.ArtifactTTL)); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return artifacts, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
