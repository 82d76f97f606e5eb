package georef

import (
	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

const (
	// ReferenceAttribute holds a document<target> pointer to a CRS defined elsewhere
	ReferenceAttribute = "primvars:geolocation:crs"
	// InlineAttribute holds CRS definition text
	InlineAttribute = "primvars:geolocation:crs:wkt"
)

// LocatorOptions name the attributes searched for and the folder relative pointers resolve against
type LocatorOptions struct {
	ReferenceAttribute string
	InlineAttribute    string
	BaseFolder         string
}

func DefaultLocatorOptions() LocatorOptions {
	return LocatorOptions{
		ReferenceAttribute: ReferenceAttribute,
		InlineAttribute:    InlineAttribute,
	}
}

// Locator finds the georeference that applies to a node
type Locator struct {
	opts LocatorOptions
}

func NewLocator(opts LocatorOptions) *Locator {
	defaults := DefaultLocatorOptions()
	if opts.ReferenceAttribute == "" {
		opts.ReferenceAttribute = defaults.ReferenceAttribute
	}
	if opts.InlineAttribute == "" {
		opts.InlineAttribute = defaults.InlineAttribute
	}
	return &Locator{opts: opts}
}

func (l *Locator) Options() LocatorOptions {
	return l.opts
}

// Locate walks from the node up to the root and returns the first authored
// georeference. On each node the reference attribute is checked before the
// inline one. Absence is reported with false, a pointer that does not parse is
// returned as a MalformedRef.
func (l *Locator) Locate(node *scene.Node) (Value, bool) {
	for cur := node; cur != nil; cur = cur.Parent() {
		if v, ok := cur.AuthoredValue(l.opts.ReferenceAttribute); ok {
			return l.reference(cur, v), true
		}
		if v, ok := cur.AuthoredValue(l.opts.InlineAttribute); ok {
			text, isText := v.Text()
			if !isText {
				text = v.String()
			}
			return Inline{Text: text, Owner: cur.Path()}, true
		}
	}
	return nil, false
}

func (l *Locator) reference(owner *scene.Node, v *scene.Value) Value {
	raw, ok := v.Text()
	if !ok {
		raw = v.String()
	}
	ref, err := ParseReference(raw, l.opts.BaseFolder)
	if err != nil {
		glog.V(1).Infof("%s: %v", owner.Path(), err)
		return MalformedRef{Raw: raw, Err: err, Owner: owner.Path()}
	}
	ref.Owner = owner.Path()
	return ref
}
