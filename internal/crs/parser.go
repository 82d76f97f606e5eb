package crs

import (
	"strings"

	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
)

// Parser turns CRS definition text into a Descriptor
type Parser interface {
	Parse(text string) (*Descriptor, error)
}

// WKTParser reads OGC Well Known Text, both the WKT1 and the WKT2 keyword sets
type WKTParser struct{}

func NewWKTParser() Parser {
	return &WKTParser{}
}

// Parses a WKT definition. Every failure is a CRSParseError.
func (p *WKTParser) Parse(text string) (*Descriptor, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, geoerr.New(geoerr.CRSParseError, "", "empty CRS definition")
	}

	root, err := parseWKT(text)
	if err != nil {
		return nil, geoerr.Wrap(geoerr.CRSParseError, abbreviate(text), err)
	}

	if !root.is(projectedKeywords...) && !root.is(geographicKeywords...) &&
		!root.is(geocentricKeywords...) && !root.is(compoundKeywords...) {
		return nil, geoerr.New(geoerr.CRSParseError, abbreviate(text), "%s is not a coordinate reference system", root.Keyword)
	}
	if root.name() == "" {
		return nil, geoerr.New(geoerr.CRSParseError, abbreviate(text), "%s has no name", root.Keyword)
	}

	d := newDescriptor(root)
	if d.kind == 0 {
		return nil, geoerr.New(geoerr.CRSParseError, d.name, "compound CRS has no horizontal component")
	}
	return d, nil
}

// MustParse parses a definition known to be valid, such as a built-in preset
func MustParse(text string) *Descriptor {
	d, err := NewWKTParser().Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

func abbreviate(text string) string {
	const max = 48
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
