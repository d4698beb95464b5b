// Package geom loads geometry from files and inline text into orb values.
//
// Supported inputs are selected by file extension:
//
//	.wkt, .txt       well-known text, one geometry per line or a single geometry
//	.geojson, .json  GeoJSON FeatureCollection, Feature or bare geometry
//	.csv             rows with lat/lon columns or a wkt column
//	.kml             Placemark points, lines and polygons
//
// Every loader returns a [Set]. Features keep an optional label taken from a
// "name" or "label" property, which the pipeline can draw as text.
package geom

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// Format identifies an input encoding.
type Format string

const (
	FormatWKT     Format = "wkt"
	FormatGeoJSON Format = "geojson"
	FormatCSV     Format = "csv"
	FormatKML     Format = "kml"
)

var extFormats = map[string]Format{
	".wkt":     FormatWKT,
	".txt":     FormatWKT,
	".geojson": FormatGeoJSON,
	".json":    FormatGeoJSON,
	".csv":     FormatCSV,
	".kml":     FormatKML,
}

// FormatOf returns the input format implied by the path's extension.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", ext)
}

// Feature is one geometry with an optional label.
type Feature struct {
	Geometry orb.Geometry
	Label    string
}

// Set is the geometry loaded from one source.
type Set struct {
	Source   string
	Features []Feature
}

// Len returns the number of features.
func (s Set) Len() int { return len(s.Features) }

// Collection returns the geometries in load order.
func (s Set) Collection() orb.Collection {
	c := make(orb.Collection, 0, len(s.Features))
	for _, f := range s.Features {
		c = append(c, f.Geometry)
	}
	return c
}

// Bound returns the bounding box of all features.
func (s Set) Bound() orb.Bound {
	return s.Collection().Bound()
}

// Merge appends the features of other.
func (s Set) Merge(other Set) Set {
	s.Features = append(s.Features[:len(s.Features):len(s.Features)], other.Features...)
	return s
}

// Load reads path and parses it according to its extension.
func Load(ctx context.Context, path string) (Set, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return Set{}, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return Set{}, err
	}
	if err := ctx.Err(); err != nil {
		return Set{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Set{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	set, err := Parse(format, data)
	if err != nil {
		return Set{}, err
	}
	set.Source = path
	return set, nil
}

// Parse decodes data in the given format.
func Parse(format Format, data []byte) (Set, error) {
	switch format {
	case FormatWKT:
		return ParseWKT(string(data))
	case FormatGeoJSON:
		return ParseGeoJSON(data)
	case FormatCSV:
		return ParseCSV(data)
	case FormatKML:
		return ParseKML(data)
	default:
		return Set{}, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", format)
	}
}

func noGeometry(format Format) error {
	return errors.New(errors.ErrCodeInvalidGeometry, "%s: no geometries found", format)
}
