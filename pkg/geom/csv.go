package geom

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// csvColumns holds the detected column indexes, -1 when absent.
type csvColumns struct {
	lat, lon, wkt, label int
}

func detectColumns(header []string) csvColumns {
	cols := csvColumns{lat: -1, lon: -1, wkt: -1, label: -1}
	first := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			first(&cols.lat, i)
		case "lon", "lng", "long", "longitude", "x":
			first(&cols.lon, i)
		case "wkt", "geometry", "geom":
			first(&cols.wkt, i)
		case "name", "label", "title":
			first(&cols.label, i)
		}
	}
	return cols
}

// ParseCSV reads a CSV with a header row. Geometry comes from a wkt column
// when present, otherwise from latitude/longitude columns as points. Column
// names are matched case-insensitively: lat|latitude|y, lon|lng|long|
// longitude|x, wkt|geometry|geom and name|label|title. Rows that do not
// parse are skipped.
func ParseCSV(data []byte) (Set, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "read csv")
	}
	if len(recs) == 0 {
		return Set{}, errors.New(errors.ErrCodeInvalidGeometry, "empty csv")
	}

	cols := detectColumns(recs[0])
	if cols.wkt == -1 && (cols.lat == -1 || cols.lon == -1) {
		return Set{}, errors.New(errors.ErrCodeInvalidGeometry, "csv: latitude/longitude or wkt columns not found")
	}

	var set Set
	for _, row := range recs[1:] {
		g, ok := cols.geometry(row)
		if !ok {
			continue
		}
		f := Feature{Geometry: g}
		if cols.label >= 0 && cols.label < len(row) {
			f.Label = strings.TrimSpace(row[cols.label])
		}
		set.Features = append(set.Features, f)
	}
	if len(set.Features) == 0 {
		return Set{}, errors.New(errors.ErrCodeInvalidGeometry, "csv: no valid rows parsed")
	}
	return set, nil
}

func (c csvColumns) geometry(row []string) (orb.Geometry, bool) {
	if c.wkt >= 0 {
		if c.wkt >= len(row) {
			return nil, false
		}
		g, err := wkt.Unmarshal(strings.TrimSpace(row[c.wkt]))
		return g, err == nil
	}
	if c.lon >= len(row) || c.lat >= len(row) {
		return nil, false
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[c.lon]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[c.lat]), 64)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	return orb.Point{lon, lat}, true
}
