// Package svg renders geometry as SVG markup.
//
// # Overview
//
// Every shape in this package implements [Renderable]: given a [Style] it
// produces an SVG fragment and reports the [ViewBox] it occupies. Composite
// shapes (polygons, line strings, multi geometries, collections) delegate to
// their components, so bounds always reduce to points and line segments.
//
// Shapes are grouped with the document API:
//
//	doc := svg.NewStyleBuilder().
//	    WithRadius(2).
//	    FinishStyle().
//	    AddShape(svg.Point{10, 28.1}).
//	    FinishShapes().
//	    And(svg.NewStyleBuilder().
//	        WithStrokeWidth(2.5).
//	        FinishStyle().
//	        AddShape(svg.Line{Start: orb.Point{114.19, 22.26}, End: orb.Point{15.93, -15.76}}).
//	        FinishShapes()).
//	    WithFill(svg.Named("red"))
//
//	fmt.Println(doc.Render())
//
// A [Part] bakes each shape's markup at the style it was given when the shape
// was added. Later style changes on the resulting [Document] only affect the
// attributes of the outer <svg> element.
//
// # Drawings
//
// [Drawing] is the alternative tree form: it keeps its items unrendered, and
// style setters propagate recursively to every sibling drawing joined with
// [Drawing.And]. [Combine] folds a slice of renderables into one drawing.
//
// # Geometry
//
// Geometry types come from [github.com/paulmach/orb]. The adapters ([Point],
// [LineString], [Polygon], [Rect], ...) are defined types over the orb types
// so conversion is free; [Geometry] adapts any orb.Geometry.
//
// # Numbers
//
// Coordinates are written with the shortest representation that round-trips
// and always carry a decimal point ("10.0"). Style values and the viewBox
// use float32 precision ("2", "0.7", "-18.26").
package svg
