package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os/exec"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// MaxPixels caps the raster size of a PNG export.
const MaxPixels = 8192 * 8192

// ToPNG rasterizes an SVG document in-process. The image is sized from the
// document's viewBox multiplied by scale. Text is not drawn.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", scale)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse svg")
	}

	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "svg has an empty viewBox")
	}
	if w*h > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png of %dx%d pixels exceeds limit", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// HasPDF reports whether rsvg-convert is on PATH.
func HasPDF() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !HasPDF() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, fmt.Errorf("%v: %s", err, errBuf.String()), "rsvg-convert")
	}
	return out.Bytes(), nil
}
