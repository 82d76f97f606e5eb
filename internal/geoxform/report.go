package geoxform

import (
	"github.com/ecopia-map/usd_geolocator/internal/cache"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/data"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

// NodeState is the step a prim reached while being geolocated
type NodeState int

const (
	Unvisited NodeState = iota
	LocatingCRS
	Unreferenced
	ResolvingCRS
	Unresolved
	Resolved
	ExtractingPosition
	Transforming
	Done
)

func (s NodeState) String() string {
	switch s {
	case Unvisited:
		return "Unvisited"
	case LocatingCRS:
		return "LocatingCRS"
	case Unreferenced:
		return "Unreferenced"
	case ResolvingCRS:
		return "ResolvingCRS"
	case Unresolved:
		return "Unresolved"
	case Resolved:
		return "Resolved"
	case ExtractingPosition:
		return "ExtractingPosition"
	case Transforming:
		return "Transforming"
	case Done:
		return "Done"
	}
	return "Unknown"
}

func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a failure confined to one prim
type Diagnostic struct {
	NodePath string
	Kind     geoerr.Kind
	Message  string
}

func NewDiagnostic(nodePath string, err error) Diagnostic {
	kind, _ := geoerr.KindOf(err)
	return Diagnostic{NodePath: nodePath, Kind: kind, Message: err.Error()}
}

// NodeReport is everything learned about one prim of a document
type NodeReport struct {
	Path           string
	TypeName       string
	Xformable      bool
	XformOps       []scene.XformOp
	WorldTransform *scene.Matrix4
	State          NodeState
	CRSName        string
	CRSKind        crs.Kind
	Reference      string // pointer the CRS was resolved from, empty for inline definitions
	AuthoredOn     string // prim that authored the georeference
	Record         *data.ResultRecord
	Diagnostics    []Diagnostic
}

// IsGeoreferenced reports whether a georeference applies to the prim, resolvable or not
func (r *NodeReport) IsGeoreferenced() bool {
	return r.AuthoredOn != ""
}

// DocumentInfo describes a document about to be traversed
type DocumentInfo struct {
	Path        string
	DefaultPrim string
	Index       int
	Total       int
	TargetName  string
	TargetKind  crs.Kind
}

// Summary reports the outcome of a whole run
type Summary struct {
	Documents        int
	FailedDocuments  int
	Nodes            int
	States           map[NodeState]int
	Diagnostics      int
	ReferenceCache   cache.Stats
	DocumentsOpened  int
	TransformerCache cache.Stats
}

// Sink receives the reports of a run as they are produced
type Sink interface {
	Begin(doc DocumentInfo)
	Node(r NodeReport)
	End(summary Summary)
}

type discardSink struct{}

func (discardSink) Begin(DocumentInfo) {}
func (discardSink) Node(NodeReport) {}
func (discardSink) End(Summary) {}

// DiscardSink drops every report
func DiscardSink() Sink {
	return discardSink{}
}
