package geom

import (
	"bufio"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/matzehuels/geosvg/pkg/errors"
)

// ParseWKT parses well-known text. Each non-empty line not starting with '#'
// is one geometry; when a line does not parse, the whole input is tried as a
// single geometry spread over several lines. A GEOMETRYCOLLECTION yields one
// feature per member.
func ParseWKT(s string) (Set, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Set{}, errors.New(errors.ErrCodeInvalidGeometry, "empty wkt")
	}

	set, lineErr := parseWKTLines(s)
	if lineErr == nil {
		if len(set.Features) == 0 {
			return Set{}, noGeometry(FormatWKT)
		}
		return set, nil
	}

	g, err := wkt.Unmarshal(strings.Join(strings.Fields(s), " "))
	if err != nil {
		return Set{}, lineErr
	}
	return Set{Features: explode(g)}, nil
}

func parseWKTLines(s string) (Set, error) {
	var set Set
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := wkt.Unmarshal(text)
		if err != nil {
			return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "wkt line %d", line)
		}
		set.Features = append(set.Features, explode(g)...)
	}
	if err := sc.Err(); err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "read wkt")
	}
	return set, nil
}

// explode flattens collections so each member becomes its own feature.
func explode(g orb.Geometry) []Feature {
	c, ok := g.(orb.Collection)
	if !ok {
		return []Feature{{Geometry: g}}
	}
	var out []Feature
	for _, member := range c {
		out = append(out, explode(member)...)
	}
	return out
}
