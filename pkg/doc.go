// Package pkg provides the core libraries for yardbook, a yardage book layout
// engine.
//
// # Overview
//
// A course drawing holds one group per hole. Yardbook turns each hole so it
// plays toward the top of the page, scales it into a fixed placement box and
// copies its green into an enlarged detail box. The pkg directory is organized
// into three areas:
//
//  1. Geometry ([geom], [transform]) - points, affine matrices, centroids and
//     canonical measurement of nodes through their transform chains
//  2. Domain ([scene], [placement]) - the document tree and the per-hole
//     placement state machine
//  3. Infrastructure ([pipeline], [cache], [sink], [config], [errors],
//     [observability], [buildinfo]) - orchestration, caching, output formats
//     and ambient concerns shared by the CLI and the HTTP server
//
// # Architecture
//
// The typical data flow:
//
//	Document JSON
//	     ↓
//	[scene] package (decode into a node tree)
//	     ↓
//	[placement] package (rotate → fit → relocate → detail → strokes, per hole)
//	     ↓
//	[sink] package (SVG, PDF, DOT, tree SVG)
//
// [pipeline] runs the whole chain and caches each stage through [cache].
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/yardbook/pkg/placement"
//	    "github.com/matzehuels/yardbook/pkg/scene"
//	    "github.com/matzehuels/yardbook/pkg/sink"
//	)
//
//	// 1. Load a course
//	doc, _ := scene.ReadFile("course.json")
//
//	// 2. Place every hole
//	engine, _ := placement.New(placement.DefaultOptions())
//	report, _ := engine.Run(context.Background(), doc)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(doc)
//
// A hole that fails is rolled back and recorded in the report; the run
// continues with the next hole.
//
// # Main Packages
//
// [geom] - Points, rectangles, 2D affine matrices, polygon centroids and
// direction angles. Coordinates are y-down.
//
// [transform] - Canonical bounds of a node through its transform chain,
// cumulative scale decomposition and scratch copies for non-destructive
// measurement.
//
// [scene] - The document tree: groups and drawable shapes with local
// transforms, lookup by id or label, clone, move and checkpoint/restore.
//
// [placement] - The engine. Unit resolution, the rotate/fit/detail state
// machine, stroke compensation and the run report.
//
// [pipeline] - Decode, place and render with caching, used by both the CLI
// and the HTTP server so results match across entry points.
//
// [cache] - File, Redis and null caches behind one interface, plus key
// derivation from document hashes and options.
//
// [sink] - Output writers: SVG, PDF (fpdf) and the node hierarchy as
// Graphviz DOT or SVG.
//
// # Testing
//
//	go test ./pkg/...                        # All tests
//	go test ./pkg/placement/...              # Specific package
//	REDIS_ADDR=localhost:6379 go test ./pkg/cache/...  # Include Redis
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/geom
// [transform]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/transform
// [scene]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/scene
// [placement]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/placement
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/cache
// [sink]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/sink
// [config]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/yardbook/pkg/buildinfo
package pkg
