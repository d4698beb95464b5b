package svg

import (
	"strconv"
	"strings"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// UnitKind is an absolute CSS length unit.
type UnitKind uint8

const (
	UnitCm   UnitKind = iota // centimeter, 37.8px
	UnitIn                   // inch, 96px
	UnitNone                 // unitless user space
	UnitMm                   // millimeter
	UnitPc                   // pica, 16px
	UnitPx                   // pixel
	UnitPt                   // point, 4/3 px
	UnitQ                    // quarter-millimeter
)

var unitSymbols = [...]string{
	UnitCm:   "cm",
	UnitIn:   "in",
	UnitNone: "",
	UnitMm:   "mm",
	UnitPc:   "pc",
	UnitPx:   "px",
	UnitPt:   "pt",
	UnitQ:    "Q",
}

// Symbol returns the suffix written after the value.
func (k UnitKind) Symbol() string {
	if int(k) < len(unitSymbols) {
		return unitSymbols[k]
	}
	return ""
}

// Unit is a length used for the width and height of the <svg> element.
// Relative units (%, em, vw) are not supported.
type Unit struct {
	Value float32
	Kind  UnitKind
}

func Cm(v float32) Unit     { return Unit{v, UnitCm} }
func In(v float32) Unit     { return Unit{v, UnitIn} }
func Number(v float32) Unit { return Unit{v, UnitNone} }
func Mm(v float32) Unit     { return Unit{v, UnitMm} }
func Pc(v float32) Unit     { return Unit{v, UnitPc} }
func Px(v float32) Unit     { return Unit{v, UnitPx} }
func Pt(v float32) Unit     { return Unit{v, UnitPt} }
func Q(v float32) Unit      { return Unit{v, UnitQ} }

// Symbol returns the unit suffix.
func (u Unit) Symbol() string { return u.Kind.Symbol() }

// Scale multiplies the value and keeps the unit.
func (u Unit) Scale(f float32) Unit {
	u.Value *= f
	return u
}

func (u Unit) String() string {
	return formatScalar(u.Value) + u.Symbol()
}

// ParseUnit parses strings such as "800px", "21cm" or "512".
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			end--
			continue
		}
		break
	}
	num, sym := s[:end], s[end:]

	kind := UnitKind(255)
	for k, v := range unitSymbols {
		if v == sym {
			kind = UnitKind(k)
			break
		}
	}
	if kind == 255 {
		return Unit{}, errors.New(errors.ErrCodeInvalidUnit, "unsupported unit %q in %q", sym, s)
	}

	v, err := strconv.ParseFloat(num, 32)
	if err != nil {
		return Unit{}, errors.Wrap(errors.ErrCodeInvalidUnit, err, "invalid length %q", s)
	}
	return Unit{Value: float32(v), Kind: kind}, nil
}
