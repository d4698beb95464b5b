package geom

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/geosvg/pkg/errors"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	LinearRing kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlGeometry struct {
	Points      []kmlCoords   `xml:"Point"`
	LineStrings []kmlCoords   `xml:"LineString"`
	LinearRings []kmlCoords   `xml:"LinearRing"`
	Polygons    []kmlPolygon  `xml:"Polygon"`
	Multi       []kmlGeometry `xml:"MultiGeometry"`
}

type kmlPlacemark struct {
	Name string `xml:"name"`
	kmlGeometry
}

// ParseKML extracts Placemark geometries at any nesting depth. Points,
// LineStrings, LinearRings, Polygons with inner boundaries and
// MultiGeometry are supported. KML coordinates are "lon,lat[,alt]"; the
// altitude is ignored.
func ParseKML(data []byte) (Set, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var set Set
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode kml")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &start); err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode placemark")
		}
		name := strings.TrimSpace(pm.Name)
		for _, g := range pm.geometries() {
			set.Features = append(set.Features, Feature{Geometry: g, Label: name})
		}
	}
	if len(set.Features) == 0 {
		return Set{}, noGeometry(FormatKML)
	}
	return set, nil
}

func (k kmlGeometry) geometries() []orb.Geometry {
	var out []orb.Geometry
	for _, p := range k.Points {
		if pts := parseKMLCoords(p.Coordinates); len(pts) > 0 {
			out = append(out, pts[0])
		}
	}
	for _, ls := range k.LineStrings {
		if pts := parseKMLCoords(ls.Coordinates); len(pts) > 0 {
			out = append(out, orb.LineString(pts))
		}
	}
	for _, r := range k.LinearRings {
		if pts := parseKMLCoords(r.Coordinates); len(pts) > 0 {
			out = append(out, orb.Ring(pts))
		}
	}
	for _, p := range k.Polygons {
		outer := parseKMLCoords(p.Outer.LinearRing.Coordinates)
		if len(outer) == 0 {
			continue
		}
		poly := orb.Polygon{orb.Ring(outer)}
		for _, in := range p.Inner {
			if pts := parseKMLCoords(in.LinearRing.Coordinates); len(pts) > 0 {
				poly = append(poly, orb.Ring(pts))
			}
		}
		out = append(out, poly)
	}
	for _, m := range k.Multi {
		out = append(out, m.geometries()...)
	}
	return out
}

// parseKMLCoords reads whitespace-separated "lon,lat[,alt]" tuples and skips
// malformed ones.
func parseKMLCoords(s string) []orb.Point {
	var pts []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		pts = append(pts, orb.Point{lon, lat})
	}
	return pts
}
