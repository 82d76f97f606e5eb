package georef

import (
	"path/filepath"
)

// Value is the georeference found for a node: an Inline definition, an
// IndirectRef pointing into another document, or a MalformedRef.
type Value interface {
	// AuthoredOn returns the path of the node that authored the value
	AuthoredOn() string
	isValue()
}

// Inline is CRS definition text authored directly on a node
type Inline struct {
	Text  string
	Owner string
}

func (v Inline) AuthoredOn() string { return v.Owner }
func (Inline) isValue() {}

// IndirectRef points to a node of another document that carries the CRS definition.
// A relative DocumentPath is resolved against BaseFolder, or the working directory
// when BaseFolder is empty.
type IndirectRef struct {
	DocumentPath string
	TargetPath   string
	BaseFolder   string
	Owner        string
}

func (v IndirectRef) AuthoredOn() string { return v.Owner }
func (IndirectRef) isValue() {}

// Pointer renders the reference in its authored form, document<target>
func (v IndirectRef) Pointer() string {
	return v.DocumentPath + "<" + v.TargetPath + ">"
}

// DocumentFile returns the file to open, joining a relative document path with the base folder
func (v IndirectRef) DocumentFile() string {
	if v.BaseFolder == "" || filepath.IsAbs(v.DocumentPath) {
		return filepath.Clean(v.DocumentPath)
	}
	return filepath.Join(v.BaseFolder, v.DocumentPath)
}

// MalformedRef is a reference attribute whose text is not a valid pointer
type MalformedRef struct {
	Raw   string
	Err   error
	Owner string
}

func (v MalformedRef) AuthoredOn() string { return v.Owner }
func (MalformedRef) isValue() {}
