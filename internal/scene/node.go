package scene

import "sort"

type Specifier int

const (
	SpecifierDef Specifier = iota
	SpecifierOver
	SpecifierClass
)

func parseSpecifier(s string) Specifier {
	switch s {
	case "over":
		return SpecifierOver
	case "class":
		return SpecifierClass
	}
	return SpecifierDef
}

// Attribute is a property of a prim as authored in the layer
type Attribute struct {
	Name     string
	TypeName string
	Uniform  bool
	Custom   bool
	Metadata map[string]*Value

	value   *Value
	samples []TimeSample
}

// HasAuthoredValue reports whether a default or time sampled value was authored.
// A value blocked with None does not count.
func (a *Attribute) HasAuthoredValue() bool {
	if a == nil {
		return false
	}
	return (a.value != nil && !a.value.IsNone()) || len(a.samples) > 0
}

// Get returns the default value, falling back to the earliest time sample
func (a *Attribute) Get() (*Value, bool) {
	if a == nil {
		return nil, false
	}
	if a.value != nil && !a.value.IsNone() {
		return a.value, true
	}
	if len(a.samples) > 0 {
		return a.samples[0].Value, true
	}
	return nil, false
}

func (a *Attribute) TimeSamples() []TimeSample {
	return a.samples
}

func (a *Attribute) addSamples(samples []TimeSample) {
	a.samples = append(a.samples, samples...)
	sort.SliceStable(a.samples, func(i, j int) bool { return a.samples[i].Time < a.samples[j].Time })
}

// Node is a prim of a scene document
type Node struct {
	path      string
	name      string
	typeName  string
	specifier Specifier
	active    bool
	parent    *Node
	children  []*Node
	attrs     map[string]*Attribute
	attrOrder []string
	metadata  map[string]*Value
}

func (n *Node) Path() string {
	return n.path
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) TypeName() string {
	return n.typeName
}

func (n *Node) Specifier() Specifier {
	return n.specifier
}

func (n *Node) IsActive() bool {
	return n.active
}

// Parent returns the parent prim, nil for root prims
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Attribute returns the attribute declared with the given name
func (n *Node) Attribute(name string) (*Attribute, bool) {
	a, ok := n.attrs[name]
	return a, ok
}

// Attributes returns the declared attributes in layer order
func (n *Node) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(n.attrOrder))
	for _, name := range n.attrOrder {
		out = append(out, n.attrs[name])
	}
	return out
}

// AuthoredValue returns the value of the named attribute if one was authored on this prim
func (n *Node) AuthoredValue(name string) (*Value, bool) {
	a, ok := n.attrs[name]
	if !ok || !a.HasAuthoredValue() {
		return nil, false
	}
	return a.Get()
}

// FindWithInheritance returns the nearest authored value of the named attribute,
// looking at this prim first and then at each ancestor. The prim that authored
// the value is returned with it.
func (n *Node) FindWithInheritance(name string) (*Value, *Node, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if v, ok := cur.AuthoredValue(name); ok {
			return v, cur, true
		}
	}
	return nil, nil, false
}

func (n *Node) Metadata(key string) (*Value, bool) {
	v, ok := n.metadata[key]
	return v, ok
}
