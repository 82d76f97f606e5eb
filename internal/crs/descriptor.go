package crs

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

type Kind int

const (
	Projected Kind = iota + 1
	Geographic
	Geocentric
)

func (k Kind) String() string {
	switch k {
	case Projected:
		return "projected"
	case Geographic:
		return "geographic"
	case Geocentric:
		return "geocentric"
	}
	return "unknown"
}

// AxisOrder is the order of the two horizontal axes of a CRS
type AxisOrder int

const (
	// Native asks for whatever order the definition declares
	Native AxisOrder = iota
	EastingNorthing
	NorthingEasting
)

func (o AxisOrder) String() string {
	switch o {
	case EastingNorthing:
		return "easting,northing"
	case NorthingEasting:
		return "northing,easting"
	}
	return "native"
}

// Parameter is a named numeric projection parameter as written in the definition
type Parameter struct {
	Name  string
	Value float64
}

// Descriptor is an immutable, parsed coordinate reference system definition.
// Two descriptors built from texts that only differ in layout share the same Identity.
type Descriptor struct {
	name       string
	kind       Kind
	definition string
	identity   string
	origin     string
	root       *wktNode
	horizontal *wktNode
}

func newDescriptor(root *wktNode) *Descriptor {
	definition := root.canonical()
	sum := blake3.Sum256([]byte(definition))

	horizontal := root
	if root.is("COMPD_CS", "COMPOUNDCRS") {
		horizontal = root.child(projectedKeywords...)
		if horizontal == nil {
			horizontal = root.child(geographicKeywords...)
		}
		if horizontal == nil {
			horizontal = root.child(geocentricKeywords...)
		}
	}

	return &Descriptor{
		name:       root.name(),
		kind:       kindOf(horizontal),
		definition: definition,
		identity:   hex.EncodeToString(sum[:]),
		root:       root,
		horizontal: horizontal,
	}
}

func (d *Descriptor) Name() string {
	return d.name
}

func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Definition returns the normalized WKT text the descriptor was built from
func (d *Descriptor) Definition() string {
	return d.definition
}

// Identity returns a stable key derived from the normalized definition
func (d *Descriptor) Identity() string {
	return d.identity
}

// Origin returns the reference pointer this descriptor was resolved from, if any
func (d *Descriptor) Origin() string {
	return d.origin
}

// WithOrigin returns a copy of the descriptor remembering the pointer it came from
func (d *Descriptor) WithOrigin(pointer string) *Descriptor {
	c := *d
	c.origin = pointer
	return &c
}

// Projection returns the projection method name, empty for non projected systems
func (d *Descriptor) Projection() string {
	if d.kind != Projected {
		return ""
	}
	if p := d.horizontal.child("PROJECTION"); p != nil {
		return p.name()
	}
	return d.horizontal.child("CONVERSION").child("METHOD", "PROJECTION").name()
}

// Parameters returns the projection parameters in definition order
func (d *Descriptor) Parameters() []Parameter {
	if d.kind != Projected {
		return nil
	}
	nodes := d.horizontal.children("PARAMETER")
	if len(nodes) == 0 {
		nodes = d.horizontal.child("CONVERSION").children("PARAMETER")
	}
	params := make([]Parameter, 0, len(nodes))
	for _, p := range nodes {
		v, _ := p.number(0)
		params = append(params, Parameter{Name: p.name(), Value: v})
	}
	return params
}

// NativeAxisOrder reports the horizontal axis order declared by the definition.
// Definitions without AXIS elements are easting first.
func (d *Descriptor) NativeAxisOrder() AxisOrder {
	axes := d.horizontal.children("AXIS")
	if len(axes) == 0 {
		axes = d.horizontal.child("CS").children("AXIS")
	}
	if len(axes) == 0 {
		return EastingNorthing
	}
	direction := strings.ToUpper(axes[0].enum())
	if direction == "NORTH" || direction == "SOUTH" {
		return NorthingEasting
	}
	return EastingNorthing
}

func (d *Descriptor) String() string {
	return d.name
}

var (
	projectedKeywords  = []string{"PROJCS", "PROJCRS", "PROJECTEDCRS"}
	geographicKeywords = []string{"GEOGCS", "GEOGCRS", "GEOGRAPHICCRS", "GEODCRS", "GEODETICCRS", "BASEGEOGCRS", "BASEGEODCRS"}
	geocentricKeywords = []string{"GEOCCS"}
	compoundKeywords   = []string{"COMPD_CS", "COMPOUNDCRS"}
)

func kindOf(n *wktNode) Kind {
	switch {
	case n == nil:
		return 0
	case n.is(projectedKeywords...):
		return Projected
	case n.is(geocentricKeywords...):
		return Geocentric
	case n.is(geographicKeywords...):
		// a WKT2 geodetic CRS with a cartesian coordinate system is geocentric
		if cs := n.child("CS"); cs != nil && strings.EqualFold(cs.enum(), "Cartesian") {
			return Geocentric
		}
		return Geographic
	}
	return 0
}
