package geom

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// labelKeys are the feature properties used as a label, in priority order.
var labelKeys = []string{"name", "label", "title"}

// ParseGeoJSON decodes a FeatureCollection, a single Feature or a bare
// geometry object.
func ParseGeoJSON(data []byte) (Set, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode geojson")
	}

	var set Set
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode feature collection")
		}
		for _, f := range fc.Features {
			set.Features = append(set.Features, fromFeature(f)...)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode feature")
		}
		set.Features = fromFeature(f)
	case "":
		return Set{}, errors.New(errors.ErrCodeInvalidGeometry, "invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "decode %s geometry", head.Type)
		}
		set.Features = explode(g.Geometry())
	}

	if len(set.Features) == 0 {
		return Set{}, noGeometry(FormatGeoJSON)
	}
	return set, nil
}

func fromFeature(f *geojson.Feature) []Feature {
	if f == nil || f.Geometry == nil {
		return nil
	}
	label := ""
	for _, key := range labelKeys {
		if v := f.Properties.MustString(key, ""); v != "" {
			label = v
			break
		}
	}
	out := explode(f.Geometry)
	for i := range out {
		out[i].Label = label
	}
	return out
}

// FeatureCollection encodes the set as GeoJSON. Labels are written to the
// "name" property so that ParseGeoJSON restores them.
func (s Set) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range s.Features {
		gf := geojson.NewFeature(f.Geometry)
		if f.Label != "" {
			gf.Properties["name"] = f.Label
		}
		fc.Append(gf)
	}
	return fc
}
