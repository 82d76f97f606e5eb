package scene

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Document is an opened scene description
type Document interface {
	Path() string
	// DefaultPrim returns the path of the layer's default prim, empty when unset
	DefaultPrim() string
	// Traverse returns the defined, active, non abstract prims in depth first pre-order.
	// Every call builds a fresh sequence.
	Traverse() []*Node
	NodeAtPath(path string) (*Node, bool)
	Close() error
}

type usdaDocument struct {
	path        string
	defaultPrim string
	roots       []*Node
	byPath      map[string]*Node
}

var errNotUSDA = errors.New("missing #usda header")

// Parse reads a text layer. path is only used to name the document.
func Parse(path string, data []byte) (Document, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("PXR-USDC")) {
		return nil, fmt.Errorf("%s: binary crate files are not supported", path)
	}
	if !bytes.HasPrefix(trimmed, []byte("#usda")) {
		return nil, fmt.Errorf("%s: %w", path, errNotUSDA)
	}

	layer, err := usdaParser.ParseBytes(path, trimmed)
	if err != nil {
		return nil, err
	}

	doc := &usdaDocument{path: path, byPath: map[string]*Node{}}
	if layer.Metadata != nil {
		for _, e := range layer.Metadata.Entries {
			if e.Field != nil && e.Field.Key == "defaultPrim" {
				if name, ok := convertValue(e.Field.Value).Text(); ok {
					doc.defaultPrim = "/" + name
				}
			}
		}
	}

	for _, p := range layer.Prims {
		node, err := doc.build(p, nil)
		if err != nil {
			return nil, err
		}
		doc.roots = append(doc.roots, node)
	}
	return doc, nil
}

func ParseString(path string, src string) (Document, error) {
	return Parse(path, []byte(src))
}

func (d *usdaDocument) build(p *usdaPrim, parent *Node) (*Node, error) {
	name := unquoteUSD(p.Name)
	if name == "" || strings.ContainsAny(name, "/<>") {
		return nil, fmt.Errorf("%s: invalid prim name %q", d.path, name)
	}

	path := "/" + name
	if parent != nil {
		path = parent.path + "/" + name
	}
	if _, dup := d.byPath[path]; dup {
		return nil, fmt.Errorf("%s: prim %s is defined twice", d.path, path)
	}

	node := &Node{
		path:      path,
		name:      name,
		typeName:  p.TypeName,
		specifier: parseSpecifier(p.Specifier),
		active:    true,
		parent:    parent,
		attrs:     map[string]*Attribute{},
		metadata:  convertMetadata(p.Metadata),
	}
	if active, ok := node.metadata["active"]; ok {
		if b, ok := active.Bool(); ok {
			node.active = b
		}
	}
	d.byPath[path] = node

	for _, item := range p.Items {
		switch {
		case item.Child != nil:
			child, err := d.build(item.Child, node)
			if err != nil {
				return nil, err
			}
			node.children = append(node.children, child)
		case item.Property != nil:
			node.addProperty(item.Property)
		}
	}
	return node, nil
}

func (n *Node) addProperty(p *usdaProperty) {
	name := p.Name
	switch {
	case strings.HasSuffix(name, ".connect"):
		return
	case strings.HasSuffix(name, ".timeSamples"):
		name = strings.TrimSuffix(name, ".timeSamples")
		a := n.attribute(name, p)
		a.addSamples(convertTimeSamples(p.Value))
		return
	}

	a := n.attribute(name, p)
	if p.Value != nil {
		a.value = convertValue(p.Value)
	}
	for k, v := range convertMetadata(p.Metadata) {
		a.Metadata[k] = v
	}
}

// attribute returns the attribute named name, declaring it from p if needed
func (n *Node) attribute(name string, p *usdaProperty) *Attribute {
	if a, ok := n.attrs[name]; ok {
		return a
	}
	typeName := p.Type
	if p.Array {
		typeName += "[]"
	}
	a := &Attribute{
		Name:     name,
		TypeName: typeName,
		Uniform:  p.Variability == "uniform",
		Custom:   p.Custom,
		Metadata: map[string]*Value{},
	}
	n.attrs[name] = a
	n.attrOrder = append(n.attrOrder, name)
	return a
}

func convertMetadata(m *usdaMetadata) map[string]*Value {
	out := map[string]*Value{}
	if m == nil {
		return out
	}
	for _, e := range m.Entries {
		switch {
		case e.Doc != nil:
			out["doc"] = &Value{kind: StringValue, text: unquoteUSD(*e.Doc)}
		case e.Field != nil:
			out[e.Field.Key] = convertValue(e.Field.Value)
		}
	}
	return out
}

func (d *usdaDocument) Path() string {
	return d.path
}

func (d *usdaDocument) DefaultPrim() string {
	return d.defaultPrim
}

func (d *usdaDocument) Traverse() []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.specifier != SpecifierDef || !n.active {
				continue
			}
			out = append(out, n)
			walk(n.children)
		}
	}
	walk(d.roots)
	return out
}

func (d *usdaDocument) NodeAtPath(path string) (*Node, bool) {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	n, ok := d.byPath[path]
	return n, ok
}

func (d *usdaDocument) Close() error {
	d.roots = nil
	d.byPath = nil
	return nil
}
