// Package pkg provides the core libraries for Mosaic treemap visualization.
//
// # Overview
//
// Mosaic turns code-analysis documents (line counts, languages, and git
// activity per file) into squarified treemap renderings. The pkg directory
// is organized into six areas:
//
//  1. [tree] - Analysis document model (hierarchy, aggregation, lookup)
//  2. [ignore] - Gitignore-style exclusion filtering over trees
//  3. [colors] - Deterministic category palette and scalar color scales
//  4. [treemap] - Squarified layout, fill resolution, and interaction events
//  5. [prefs] - Persisted preferences with query-string synchronization
//  6. [errors], [observability] - Shared error codes and instrumentation hooks
//
// # Architecture
//
// The typical data flow through Mosaic:
//
//	Analysis JSON document
//	         ↓
//	    [tree] package (decode + aggregate)
//	         ↓
//	    [ignore] package (apply exclusion patterns)
//	         ↓
//	    [treemap] package (layout + fill resolution)
//	         ↓
//	    SVG/PNG/JSON output via [treemap/sink]
//
// # Quick Start
//
// Load an analysis and render it as an SVG treemap:
//
//	import (
//	    "github.com/mosaicviz/mosaic/pkg/tree"
//	    "github.com/mosaicviz/mosaic/pkg/treemap"
//	    "github.com/mosaicviz/mosaic/pkg/treemap/sink"
//	)
//
//	// 1. Load the analysis document
//	analysis, _ := tree.Load("analysis.json")
//
//	// 2. Render the root view
//	engine := treemap.NewEngine()
//	cfg := treemap.Config{ColorMode: treemap.ModeFiletype, Cushion: true,
//	    HideFolderBorders: true, ShowRepoBorders: true}
//	_, data, _ := engine.Render(analysis.Tree, nil, 1280, 800, cfg, sink.NewSVG())
//
// Filter before rendering:
//
//	filtered := ignore.Filter(analysis.Tree, []string{"*.min.js", "vendor"})
//
// Track view preferences across sessions:
//
//	backend, _ := prefs.NewFileBackend("")
//	store := prefs.NewStore(backend)
//	store.SetActiveAnalysis(analysis.AnalysisSet)
//	store.SetColorMode(treemap.ModeDepth)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/treemap/...   # Specific package
//
// [tree]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/tree
// [ignore]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/ignore
// [colors]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/colors
// [treemap]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/treemap
// [treemap/sink]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/treemap/sink
// [prefs]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/prefs
// [errors]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mosaicviz/mosaic/pkg/observability
package pkg
