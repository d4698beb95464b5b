package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/paulmach/orb"
)

// DefaultFontSize is the font size of a Text created with NewText.
const DefaultFontSize float32 = 10

// Text is a label anchored at a position. Text does not contribute to the
// view box: its extent depends on font metrics that are not known here, so a
// label near the edge of the content may be clipped.
type Text struct {
	Body     string
	Pos      orb.Point
	FontSize float32
}

// NewText returns a label with the default font size.
func NewText(body string, pos orb.Point) Text {
	return Text{Body: body, Pos: pos, FontSize: DefaultFontSize}
}

// WithFontSize returns a copy with a different font size.
func (t Text) WithFontSize(size float32) Text {
	t.FontSize = size
	return t
}

// SVG ignores the style; text is drawn with the inherited attributes.
func (t Text) SVG(Style) string {
	var body bytes.Buffer
	_ = xml.EscapeText(&body, []byte(t.Body))
	return fmt.Sprintf(`<text font-size="%s" x="%s" y="%s">%s</text>`,
		formatScalar(t.FontSize), formatPlain(t.Pos[0]), formatPlain(t.Pos[1]), body.String())
}

func (t Text) Bounds(Style) ViewBox { return ViewBox{} }
