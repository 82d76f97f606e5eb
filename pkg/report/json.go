package report

import (
	"encoding/json"
	"io"

	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
)

type jsonPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type jsonDiagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type jsonNode struct {
	Document    string             `json:"document"`
	Path        string             `json:"path"`
	Type        string             `json:"type"`
	Xformable   bool               `json:"xformable"`
	State       geoxform.NodeState `json:"state"`
	CRS         string             `json:"crs,omitempty"`
	Reference   string             `json:"reference,omitempty"`
	AuthoredOn  string             `json:"authored_on,omitempty"`
	World       *jsonPosition      `json:"world,omitempty"`
	Transformed *jsonPosition      `json:"transformed,omitempty"`
	TargetCRS   string             `json:"target_crs,omitempty"`
	Diagnostics []jsonDiagnostic   `json:"diagnostics,omitempty"`
}

type jsonSummary struct {
	Documents       int            `json:"documents"`
	FailedDocuments int            `json:"failed_documents"`
	Nodes           int            `json:"nodes"`
	States          map[string]int `json:"states"`
	Diagnostics     int            `json:"diagnostics"`
	DocumentsOpened int            `json:"documents_opened"`
}

// JSONPrinter writes one JSON object per prim, followed by a summary object
type JSONPrinter struct {
	enc *json.Encoder
	doc geoxform.DocumentInfo
}

func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{enc: json.NewEncoder(w)}
}

func (p *JSONPrinter) Begin(doc geoxform.DocumentInfo) {
	p.doc = doc
}

func (p *JSONPrinter) Node(r geoxform.NodeReport) {
	node := jsonNode{
		Document:   p.doc.Path,
		Path:       r.Path,
		Type:       r.TypeName,
		Xformable:  r.Xformable,
		State:      r.State,
		CRS:        r.CRSName,
		Reference:  r.Reference,
		AuthoredOn: r.AuthoredOn,
	}
	if rec := r.Record; rec != nil {
		node.World = &jsonPosition{X: rec.WorldX, Y: rec.WorldY, Z: rec.WorldZ}
		if rec.IsTransformed() {
			node.Transformed = &jsonPosition{X: *rec.TransformedX, Y: *rec.TransformedY, Z: rec.WorldZ}
			node.TargetCRS = p.doc.TargetName
		}
	}
	for _, d := range r.Diagnostics {
		node.Diagnostics = append(node.Diagnostics, jsonDiagnostic{Kind: d.Kind.String(), Message: d.Message})
	}
	p.encode(node)
}

func (p *JSONPrinter) End(s geoxform.Summary) {
	summary := jsonSummary{
		Documents:       s.Documents,
		FailedDocuments: s.FailedDocuments,
		Nodes:           s.Nodes,
		States:          map[string]int{},
		Diagnostics:     s.Diagnostics,
		DocumentsOpened: s.DocumentsOpened,
	}
	for state, n := range s.States {
		summary.States[state.String()] = n
	}
	p.encode(struct {
		Summary jsonSummary `json:"summary"`
	}{summary})
}

func (p *JSONPrinter) encode(v interface{}) {
	if err := p.enc.Encode(v); err != nil {
		glog.Errorf("Could not write report: %v", err)
	}
}
