// Package pkg holds the libraries behind geosvg, which draws geometry as
// standalone SVG documents.
//
// # Overview
//
// Data flows through the packages in one direction:
//
//	GeoJSON / WKT / CSV / KML (files, URLs or inline)
//	         ↓
//	    [geom] parse into orb geometries
//	         ↓
//	    [svg] style, compose, compute the viewBox
//	         ↓
//	    [render] rasterize or convert (PNG, PDF)
//
// [pipeline] runs these steps for the CLI and the HTTP server so both
// behave the same, with [cache] in front of parsing and conversion.
//
// # Quick Start
//
// Build a document by hand:
//
//	doc := svg.NewStyleBuilder().
//	    WithFill(svg.Named("red")).
//	    FinishStyle().
//	    AddShape(svg.Geometry(orb.Point{1, 2})).
//	    FinishShapes().
//	    WithMargin(1)
//	fmt.Println(doc.Render())
//
// Or run the whole pipeline:
//
//	r := pipeline.NewRunner(nil, nil, logger)
//	res, err := r.Execute(ctx, pipeline.Options{
//	    Inputs:  []string{"roads.geojson"},
//	    Style:   config.StyleConfig{Stroke: "black"},
//	    Formats: []string{"svg", "png"},
//	})
//
// # Packages
//
// [svg] - Styles, colors, units, the viewBox and the shape types. Every
// shape renders itself against a style and reports its own bounds.
//
// [geom] - Input adapters. Each format is parsed into a feature set of orb
// geometries with their properties.
//
// [config] - TOML scene files describing layers and their styles.
//
// [pipeline] - Load, compose and render, with cache bookkeeping.
//
// [render] - SVG to PNG (in process) and PDF (rsvg-convert).
//
// [cache] - File, Redis, MongoDB and null caches behind one interface.
//
// [httputil] - Fetching of remote inputs with retries.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// [buildinfo] - Version information.
//
// [svg]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/svg
// [geom]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/geom
// [config]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/geosvg/pkg/buildinfo
package pkg
