package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/geosvg/pkg/render"
	"github.com/matzehuels/geosvg/pkg/svg"
)

// Metadata is the JSON artifact: the computed frame of a document.
type Metadata struct {
	ViewBox string          `json:"viewBox"`
	MinX    float32         `json:"min_x"`
	MinY    float32         `json:"min_y"`
	Width   float32         `json:"width"`
	Height  float32         `json:"height"`
	Render  *RenderedSize   `json:"rendered,omitempty"`
	Layers  []LayerMetadata `json:"layers"`
	SVGHash string          `json:"svg_hash"`
}

// RenderedSize is the width and height written on the <svg> element.
type RenderedSize struct {
	Width  string `json:"width"`
	Height string `json:"height"`
}

// LayerMetadata summarizes one layer.
type LayerMetadata struct {
	Name     string `json:"name"`
	Features int    `json:"features"`
	Shapes   int    `json:"shapes"`
}

// NewMetadata describes doc. svgHash is the hash of doc's rendered bytes.
func NewMetadata(doc svg.Document, sets []LayerSet, svgHash string) Metadata {
	vb := doc.ViewBox()
	m := Metadata{
		ViewBox: vb.String(),
		MinX:    vb.MinX(),
		MinY:    vb.MinY(),
		Width:   vb.Width(),
		Height:  vb.Height(),
		SVGHash: svgHash,
	}
	if w, h, ok := doc.Dimensions(); ok {
		m.Render = &RenderedSize{Width: w.String(), Height: h.String()}
	}
	parts := doc.Parts()
	for i, ls := range sets {
		lm := LayerMetadata{Name: ls.Layer.Name, Features: ls.Set.Len()}
		if i < len(parts) {
			lm.Shapes = parts[i].Len()
		}
		m.Layers = append(m.Layers, lm)
	}
	return m
}

// Render converts a serialized document into one artifact per format.
// meta is used for the JSON format.
func Render(ctx context.Context, svgData []byte, meta Metadata, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, format, svgData, meta, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, svgData []byte, meta Metadata, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svgData, nil
	case FormatPNG:
		return render.ToPNG(svgData, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svgData)
	case FormatJSON:
		return json.MarshalIndent(meta, "", "  ")
	default:
		return nil, ValidateFormat(format)
	}
}
