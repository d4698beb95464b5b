package geom

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geosvg/pkg/errors"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"roads.wkt", FormatWKT, false},
		{"notes.TXT", FormatWKT, false},
		{"a/b/c.geojson", FormatGeoJSON, false},
		{"data.json", FormatGeoJSON, false},
		{"stations.csv", FormatCSV, false},
		{"Export.KML", FormatKML, false},
		{"shape.shp", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatOf(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single point", "POINT(1 2)", 1, false},
		{"lines with comments", "# roads\nLINESTRING(0 0,1 1)\n\nPOINT(3 4)\n", 2, false},
		{"collection", "GEOMETRYCOLLECTION(POINT(1 2),LINESTRING(0 0,1 1))", 2, false},
		{"multi-line polygon", "POLYGON((0 0,\n10 0,\n10 10,\n0 0))", 1, false},
		{"empty", "   ", 0, true},
		{"garbage", "NOT WKT", 0, true},
		{"comments only", "# nothing here", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWKT(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWKT() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
					t.Errorf("ParseWKT() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGeometry)
				}
				return
			}
			if got.Len() != tt.want {
				t.Errorf("ParseWKT() = %d features, want %d", got.Len(), tt.want)
			}
		})
	}
}

func TestParseWKTValues(t *testing.T) {
	set, err := ParseWKT("POINT(1.5 -2)")
	if err != nil {
		t.Fatalf("ParseWKT() error = %v", err)
	}
	if got, want := set.Features[0].Geometry, (orb.Point{1.5, -2}); got != want {
		t.Errorf("ParseWKT() = %v, want %v", got, want)
	}
}

const testFeatureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "A"}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
    {"type": "Feature", "properties": {"label": "B"}, "geometry": {"type": "LineString", "coordinates": [[0, 0], [3, 4]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [5, 0], [5, 5], [0, 0]]]}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       int
		wantLabels []string
		wantErr    bool
	}{
		{"collection", testFeatureCollection, 3, []string{"A", "B", ""}, false},
		{
			"feature",
			`{"type":"Feature","properties":{"title":"T"},"geometry":{"type":"MultiPoint","coordinates":[[1,1],[2,2]]}}`,
			1, []string{"T"}, false,
		},
		{"bare geometry", `{"type":"Point","coordinates":[9,9]}`, 1, []string{""}, false},
		{
			"geometry collection",
			`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,1]},{"type":"Point","coordinates":[2,2]}]}`,
			2, nil, false,
		},
		{"missing type", `{"coordinates":[1,2]}`, 0, nil, true},
		{"invalid json", `{`, 0, nil, true},
		{"empty collection", `{"type":"FeatureCollection","features":[]}`, 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGeoJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGeoJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Len() != tt.want {
				t.Fatalf("ParseGeoJSON() = %d features, want %d", got.Len(), tt.want)
			}
			for i, want := range tt.wantLabels {
				if got.Features[i].Label != want {
					t.Errorf("Features[%d].Label = %q, want %q", i, got.Features[i].Label, want)
				}
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"lat lon", "name,Latitude,Longitude\nA,52.5,13.4\nB,48.1,11.6\n", 2, false},
		{"x y", "x,y\n1,2\n3,4\n", 2, false},
		{"skips bad rows", "lat,lon\n1,2\nnope,3\n5\n", 1, false},
		{"wkt column", "id,wkt\n1,\"LINESTRING(0 0,1 1)\"\n2,POINT(3 3)\n", 2, false},
		{"missing columns", "a,b\n1,2\n", 0, true},
		{"no rows", "lat,lon\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSV([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Len() != tt.want {
				t.Errorf("ParseCSV() = %d features, want %d", got.Len(), tt.want)
			}
		})
	}
}

func TestParseCSVLonLatOrder(t *testing.T) {
	set, err := ParseCSV([]byte("name,lat,lon\nBerlin,52.5,13.4\n"))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	f := set.Features[0]
	if got, want := f.Geometry, (orb.Point{13.4, 52.5}); got != want {
		t.Errorf("Geometry = %v, want %v", got, want)
	}
	if f.Label != "Berlin" {
		t.Errorf("Label = %q, want %q", f.Label, "Berlin")
	}
}

const testKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name>Gate</name>
        <Point><coordinates>13.37,52.51,0</coordinates></Point>
      </Placemark>
    </Folder>
    <Placemark>
      <name>Route</name>
      <LineString><coordinates>0,0 1,1 2,0</coordinates></LineString>
    </Placemark>
    <Placemark>
      <Polygon>
        <outerBoundaryIs><LinearRing><coordinates>0,0 4,0 4,4 0,0</coordinates></LinearRing></outerBoundaryIs>
        <innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs>
      </Polygon>
    </Placemark>
    <Placemark>
      <MultiGeometry>
        <Point><coordinates>5,5</coordinates></Point>
        <Point><coordinates>6,6</coordinates></Point>
      </MultiGeometry>
    </Placemark>
  </Document>
</kml>`

func TestParseKML(t *testing.T) {
	set, err := ParseKML([]byte(testKML))
	if err != nil {
		t.Fatalf("ParseKML() error = %v", err)
	}
	if set.Len() != 5 {
		t.Fatalf("ParseKML() = %d features, want 5", set.Len())
	}
	if got, want := set.Features[0].Geometry, (orb.Point{13.37, 52.51}); got != want {
		t.Errorf("Features[0] = %v, want %v", got, want)
	}
	if set.Features[0].Label != "Gate" {
		t.Errorf("Features[0].Label = %q, want Gate", set.Features[0].Label)
	}
	poly, ok := set.Features[2].Geometry.(orb.Polygon)
	if !ok || len(poly) != 2 {
		t.Errorf("Features[2] = %v, want polygon with one hole", set.Features[2].Geometry)
	}
}

func TestParseKMLEmpty(t *testing.T) {
	if _, err := ParseKML([]byte(`<kml><Document/></kml>`)); err == nil {
		t.Error("ParseKML() error = nil, want error")
	}
	if _, err := ParseKML([]byte(`<kml><Placemark>`)); err == nil {
		t.Error("ParseKML() on truncated input error = nil, want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.wkt")
	if err := os.WriteFile(path, []byte("POINT(1 1)\nPOINT(2 2)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Source != path || set.Len() != 2 {
		t.Errorf("Load() = %+v, want 2 features from %s", set, path)
	}
	if got, want := set.Bound(), (orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{2, 2}}); got != want {
		t.Errorf("Bound() = %v, want %v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		path string
		code errors.Code
	}{
		{"missing file", context.Background(), filepath.Join(dir, "nope.wkt"), errors.ErrCodeFileNotFound},
		{"unsupported", context.Background(), filepath.Join(dir, "a.shp"), errors.ErrCodeUnsupported},
		{"empty path", context.Background(), "", errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.ctx, tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %v", err, tt.code)
			}
		})
	}

	if _, err := Load(canceled, filepath.Join(dir, "a.wkt")); err != context.Canceled {
		t.Errorf("Load() with canceled context error = %v, want %v", err, context.Canceled)
	}
}

func TestSetMerge(t *testing.T) {
	a := Set{Features: make([]Feature, 1, 4)}
	b := Set{Features: []Feature{{Geometry: orb.Point{1, 1}}}}

	merged := a.Merge(b)
	_ = a.Merge(Set{Features: []Feature{{Geometry: orb.Point{2, 2}}}})

	if merged.Len() != 2 {
		t.Fatalf("Merge() = %d features, want 2", merged.Len())
	}
	if merged.Features[1].Geometry != (orb.Point{1, 1}) {
		t.Errorf("Merge() result aliased by later Merge: %v", merged.Features[1].Geometry)
	}
}

func TestFeatureCollectionRoundTrip(t *testing.T) {
	in := Set{Features: []Feature{
		{Geometry: orb.Point{1, 2}, Label: "A"},
		{Geometry: orb.LineString{{0, 0}, {1, 1}}},
	}}
	data, err := in.FeatureCollection().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	out, err := ParseGeoJSON(data)
	if err != nil {
		t.Fatalf("ParseGeoJSON() error = %v", err)
	}
	if out.Len() != 2 || out.Features[0].Label != "A" || out.Features[1].Label != "" {
		t.Errorf("round trip = %+v, want labels [A, \"\"]", out.Features)
	}
}
