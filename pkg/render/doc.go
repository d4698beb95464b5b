// Package render converts finished SVG documents to other formats.
//
// [ToPNG] rasterizes in-process with oksvg and rasterx, so PNG export works
// without external tools. The raster size follows the document's viewBox:
//
//	png, err := render.ToPNG(svgBytes, 2.0) // 2x the viewBox size
//
// [ToPDF] shells out to rsvg-convert (librsvg), which must be installed:
//
//	pdf, err := render.ToPDF(ctx, svgBytes)
//
// Both take the serialized document produced by the svg package; nothing here
// knows about geometry or styles.
package render
