// Package pipeline runs the decode → place → render sequence shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Decode: read the JSON document produced by upstream grouping tools
//  2. Place: run the [placement.Engine] over every unit
//  3. Render: produce the requested output formats
//
// Placement and rendering are cached. A placement is keyed by the SHA-256 of
// the input document plus every option that changes the result; an artifact
// is keyed by the hash of the placed document plus its render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document:  data,
//	    Placement: placement.DefaultOptions(),
//	    Formats:   []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yardbook/pkg/cache"
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/placement"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// Format constants for output formats.
const (
	FormatJSON = "json" // placed document
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"  // node hierarchy as Graphviz source
	FormatTree = "tree" // node hierarchy laid out as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatTree: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, pdf, dot, tree)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Document is the JSON-encoded input document.
	Document []byte `json:"-"`

	// Placement configures the engine. Its Logger defaults to Logger.
	Placement placement.Options `json:"-"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Frames     bool     `json:"frames,omitempty"` // overlay the target boxes
	Background string   `json:"background,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the placed document.
	Document *scene.Document
	// DocumentHash is the SHA-256 of the input document.
	DocumentHash string
	// PlacementHash is the SHA-256 of the placed document's JSON.
	PlacementHash string

	Report *placement.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	Units      int
	Placed     int
	Failed     int
	DecodeTime time.Duration
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	PlaceHit  bool // placed document and report came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateAndSetDefaults checks the options and fills in defaults. Calling
// it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Placement.Logger == nil {
		o.Placement.Logger = o.Logger
	}
	if err := o.Placement.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(slices.Sorted(slices.Values(o.Formats)))
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PlacementKeyOpts returns cache key options for the placement stage.
func (o *Options) PlacementKeyOpts() cache.PlacementKeyOpts {
	p := &o.Placement
	k := cache.PlacementKeyOpts{
		Placement:       boxKey(p.Placement),
		Detail:          boxKey(p.Detail),
		Direction:       float64(p.Direction),
		FirstUnit:       p.FirstUnit,
		LastUnit:        p.LastUnit,
		ResetTransforms: p.ResetTransforms,
		LeftInset:       p.LeftInset,
		StrokeMode:      p.StrokeMode.String(),
		TargetStroke:    p.TargetStroke,
		Layout:          []string{p.PlacementParent, p.DetailParent, p.DetailAnchor, p.CloneSuffix},
	}
	if lr, ok := p.Resolver.(*placement.LabelResolver); ok {
		k.Layout = append(k.Layout, lr.UnitPattern, lr.GreenPattern)
		k.Layout = append(k.Layout, lr.TerrainLabels...)
	} else if p.Resolver != nil {
		k.Layout = append(k.Layout, fmt.Sprintf("%T", p.Resolver))
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		if o.Frames {
			k.Frames = [][5]float64{boxKey(o.Placement.Placement), boxKey(o.Placement.Detail)}
		}
		if format == FormatSVG {
			k.Background = o.Background
		}
	}
	return k
}

func boxKey(b placement.TargetBox) [5]float64 {
	return [5]float64{b.X, b.Y, b.Width, b.Height, b.Buffer}
}
