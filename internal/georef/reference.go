package georef

import (
	"regexp"
	"strings"

	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
)

// document path, then a target path between a single pair of angle brackets
var pointerPattern = regexp.MustCompile(`^([^<]*)<([^<>]*)>$`)

// ParseReference splits a document<target> pointer. A target path without a
// leading slash is made absolute.
func ParseReference(raw string, baseFolder string) (IndirectRef, error) {
	text := strings.TrimSpace(raw)
	m := pointerPattern.FindStringSubmatch(text)
	if m == nil {
		return IndirectRef{}, geoerr.New(geoerr.ReferenceSyntaxError, raw, "expected document<target>")
	}

	doc, target := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if doc == "" {
		return IndirectRef{}, geoerr.New(geoerr.ReferenceSyntaxError, raw, "missing document path")
	}
	if target == "" {
		return IndirectRef{}, geoerr.New(geoerr.ReferenceSyntaxError, raw, "missing target path")
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return IndirectRef{DocumentPath: doc, TargetPath: target, BaseFolder: baseFolder}, nil
}
