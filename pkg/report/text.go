package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/ecopia-map/usd_geolocator/internal/cache"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
)

// number of decimals printed for coordinates: millimetres in projected
// systems, about a millimetre of arc for degrees
const (
	metricPrecision  = 3
	angularPrecision = 8
)

var separator = strings.Repeat("-", 60)

// states listed in the summary, in pipeline order
var summaryStates = []geoxform.NodeState{
	geoxform.Unreferenced,
	geoxform.Unresolved,
	geoxform.Done,
}

// TextPrinter writes a human readable listing of every prim
type TextPrinter struct {
	out        *termenv.Output
	target     string
	targetKind crs.Kind
}

// NewTextPrinter prints to w, styled for an ANSI terminal when color is set
func NewTextPrinter(w io.Writer, color bool) *TextPrinter {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI
	}
	return &TextPrinter{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

func (p *TextPrinter) Begin(doc geoxform.DocumentInfo) {
	p.target = doc.TargetName
	p.targetKind = doc.TargetKind
	if doc.Total > 1 {
		fmt.Fprintf(p.out, "Document %d/%d\n", doc.Index, doc.Total)
	}
	fmt.Fprintf(p.out, "Opening USD stage: %s\n", doc.Path)
	fmt.Fprintf(p.out, "Successfully opened stage with default prim: %s\n", doc.DefaultPrim)
	fmt.Fprintln(p.out, separator)
}

func (p *TextPrinter) Node(r geoxform.NodeReport) {
	fmt.Fprintf(p.out, "\nPrim: %s\n", p.out.String(r.Path).Bold())
	fmt.Fprintf(p.out, "  Type: %s\n", r.TypeName)

	if r.Xformable {
		if len(r.XformOps) > 0 {
			fmt.Fprintln(p.out, "  Local Transform Operations:")
			for _, op := range r.XformOps {
				fmt.Fprintf(p.out, "    - %s: %s\n", op.Name, op.Value)
			}
		} else {
			fmt.Fprintln(p.out, "  No local transform operations.")
		}
		if r.WorldTransform != nil {
			fmt.Fprintf(p.out, "  Local to World Transform: %s\n", r.WorldTransform)
		}
	} else {
		fmt.Fprintln(p.out, "  Not an Xformable prim.")
	}

	switch r.State {
	case geoxform.Unreferenced:
		fmt.Fprintln(p.out, "  Prim is not georeferenced.")
	case geoxform.Unresolved:
		fmt.Fprintf(p.out, "  Prim CRS could not be resolved%s\n", p.reference(r))
	default:
		fmt.Fprintf(p.out, "  Prim CRS: %s%s\n", p.out.String(r.CRSName).Foreground(p.out.Color("2")), p.reference(r))
	}
	if r.AuthoredOn != "" && r.AuthoredOn != r.Path {
		fmt.Fprintf(p.out, "  Inherited from: %s\n", r.AuthoredOn)
	}

	if rec := r.Record; rec != nil {
		if rec.IsTransformed() {
			fmt.Fprintf(p.out, "  Transformed coordinates: %s in target CRS: %s\n",
				coordinates(*rec.TransformedX, *rec.TransformedY, rec.WorldZ, p.targetKind), p.target)
		} else {
			fmt.Fprintf(p.out, "  World position: %s\n", coordinates(rec.WorldX, rec.WorldY, rec.WorldZ, r.CRSKind))
		}
	}

	for _, d := range r.Diagnostics {
		fmt.Fprintf(p.out, "  %s %s\n", p.out.String(d.Kind.String()+":").Foreground(p.out.Color("1")), d.Message)
	}
}

func (p *TextPrinter) End(s geoxform.Summary) {
	fmt.Fprintln(p.out, "\n"+separator)
	fmt.Fprintf(p.out, "Documents: %d (%d failed)\n", s.Documents, s.FailedDocuments)
	fmt.Fprintf(p.out, "Prims: %d\n", s.Nodes)
	for _, state := range summaryStates {
		fmt.Fprintf(p.out, "  %s: %d\n", state, s.States[state])
	}
	fmt.Fprintf(p.out, "Diagnostics: %d\n", s.Diagnostics)
	fmt.Fprintf(p.out, "Reference cache: %s, %d documents opened\n", cacheStats(s.ReferenceCache), s.DocumentsOpened)
	fmt.Fprintf(p.out, "Transformer cache: %s\n", cacheStats(s.TransformerCache))
}

func (p *TextPrinter) reference(r geoxform.NodeReport) string {
	if r.Reference == "" {
		return ""
	}
	return " (" + r.Reference + ")"
}

// Formats a position. Heights stay in metres whatever the horizontal units.
func coordinates(x, y, z float64, kind crs.Kind) string {
	places := int32(metricPrecision)
	if kind == crs.Geographic {
		places = angularPrecision
	}
	return "(" + fixed(x, places) + ", " + fixed(y, places) + ", " + fixed(z, metricPrecision) + ")"
}

func fixed(f float64, places int32) string {
	return decimal.NewFromFloat(f).StringFixed(places)
}

func cacheStats(s cache.Stats) string {
	return fmt.Sprintf("%d/%d entries, %d hits, %d misses, %d evictions", s.Entries, s.Capacity, s.Hits, s.Misses, s.Evictions)
}
