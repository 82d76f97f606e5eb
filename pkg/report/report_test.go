package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/usd_geolocator/internal/cache"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/data"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

func sampleReports(t *testing.T) []geoxform.NodeReport {
	doc, err := scene.ParseString("scene.usda", `#usda 1.0
def Xform "Root"
{
    def Xform "A"
    {
        double3 xformOp:translate = (100, 200, 10)
        uniform token[] xformOpOrder = ["xformOp:translate"]
    }
}
`)
	require.NoError(t, err)
	a, ok := doc.NodeAtPath("/Root/A")
	require.True(t, ok)
	ops, err := a.XformOps()
	require.NoError(t, err)
	world, err := a.ComputeWorldTransform()
	require.NoError(t, err)

	record := data.NewResultRecord("/Root/A", "UTM Zone 17N", 100, 200, 10).WithTransformed(101.25, 201.5)
	return []geoxform.NodeReport{
		{Path: "/Root", TypeName: "Xform", Xformable: true, State: geoxform.Unreferenced},
		{
			Path: "/Root/A", TypeName: "Xform", Xformable: true, XformOps: ops, WorldTransform: &world,
			State: geoxform.Done, CRSName: "UTM Zone 17N", AuthoredOn: "/Root/A", Record: record,
		},
		{Path: "/Root/Looks", TypeName: "Scope", State: geoxform.Done, CRSName: "UTM Zone 17N", AuthoredOn: "/Root/A"},
		{
			Path: "/Root/Missing", TypeName: "Xform", Xformable: true, State: geoxform.Unresolved,
			Reference: "missing.usda</CRS>", AuthoredOn: "/Root/Missing",
			Diagnostics: []geoxform.Diagnostic{{NodePath: "/Root/Missing", Kind: geoerr.DocumentNotFound, Message: "not found"}},
		},
	}
}

func sampleSummary() geoxform.Summary {
	return geoxform.Summary{
		Documents:       1,
		Nodes:           4,
		States:          map[geoxform.NodeState]int{geoxform.Unreferenced: 1, geoxform.Unresolved: 1, geoxform.Done: 2},
		Diagnostics:     1,
		ReferenceCache:  cache.Stats{Capacity: 32, Entries: 1, Misses: 1},
		DocumentsOpened: 0,
	}
}

func run(sink geoxform.Sink, reports []geoxform.NodeReport) {
	sink.Begin(geoxform.DocumentInfo{Path: "scene.usda", DefaultPrim: "/Root", Index: 1, Total: 1, TargetName: "NAD83 / UTM zone 17N"})
	for _, r := range reports {
		sink.Node(r)
	}
	sink.End(sampleSummary())
}

func TestTextPrinter(t *testing.T) {
	var buf bytes.Buffer
	run(NewTextPrinter(&buf, false), sampleReports(t))
	out := buf.String()

	expected := []string{
		"Opening USD stage: scene.usda\n",
		"Successfully opened stage with default prim: /Root\n",
		strings.Repeat("-", 60) + "\n",
		"\nPrim: /Root\n  Type: Xform\n  No local transform operations.\n",
		"  Prim is not georeferenced.\n",
		"  Local Transform Operations:\n    - xformOp:translate: (100, 200, 10)\n",
		"  Local to World Transform: ( (1, 0, 0, 0), (0, 1, 0, 0), (0, 0, 1, 0), (100, 200, 10, 1) )\n",
		"  Prim CRS: UTM Zone 17N\n",
		"  Transformed coordinates: (101.250, 201.500, 10.000) in target CRS: NAD83 / UTM zone 17N\n",
		"\nPrim: /Root/Looks\n  Type: Scope\n  Not an Xformable prim.\n  Prim CRS: UTM Zone 17N\n  Inherited from: /Root/A\n",
		"  Prim CRS could not be resolved (missing.usda</CRS>)\n  DocumentNotFound: not found\n",
		"Documents: 1 (0 failed)\nPrims: 4\n  Unreferenced: 1\n  Unresolved: 1\n  Done: 2\nDiagnostics: 1\n",
		"Reference cache: 1/32 entries, 0 hits, 1 misses, 0 evictions, 0 documents opened\n",
	}
	for _, e := range expected {
		assert.Contains(t, out, e)
	}
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "Document 1/1")
}

func TestTextPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	run(NewTextPrinter(&buf, true), sampleReports(t))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTextPrinterWorldPosition(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPrinter(&buf, false)
	p.Begin(geoxform.DocumentInfo{Path: "a.usda", DefaultPrim: "/A", Index: 2, Total: 3})
	p.Node(geoxform.NodeReport{
		Path: "/A", TypeName: "Xform", Xformable: true, State: geoxform.Done, CRSName: "wgs",
		AuthoredOn: "/A", Record: data.NewResultRecord("/A", "wgs", 1.5, -2, 0.0004),
	})
	assert.Contains(t, buf.String(), "Document 2/3\n")
	assert.Contains(t, buf.String(), "  World position: (1.500, -2.000, 0.000)\n")
}

func TestTextPrinterGeographicPrecision(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPrinter(&buf, false)
	p.Begin(geoxform.DocumentInfo{Path: "a.usda", DefaultPrim: "/A", Index: 1, Total: 1, TargetName: "WGS 84", TargetKind: crs.Geographic})
	p.Node(geoxform.NodeReport{
		Path: "/A", TypeName: "Xform", Xformable: true, State: geoxform.Done, CRSName: "UTM Zone 17N", CRSKind: crs.Projected,
		AuthoredOn: "/A", Record: data.NewResultRecord("/A", "UTM Zone 17N", 630084, 4833438, 10).WithTransformed(-79.123456789, 43.5),
	})
	p.Node(geoxform.NodeReport{
		Path: "/B", TypeName: "Xform", Xformable: true, State: geoxform.Done, CRSName: "WGS 84", CRSKind: crs.Geographic,
		AuthoredOn: "/B", Record: data.NewResultRecord("/B", "WGS 84", -81.000000004, 0.5, 2),
	})

	assert.Contains(t, buf.String(), "  Transformed coordinates: (-79.12345679, 43.50000000, 10.000) in target CRS: WGS 84\n")
	assert.Contains(t, buf.String(), "  World position: (-81.00000000, 0.50000000, 2.000)\n")
}

func TestJSONPrinter(t *testing.T) {
	var buf bytes.Buffer
	run(NewJSONPrinter(&buf), sampleReports(t))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	var a map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &a))
	assert.Equal(t, "scene.usda", a["document"])
	assert.Equal(t, "/Root/A", a["path"])
	assert.Equal(t, "Done", a["state"])
	assert.Equal(t, "UTM Zone 17N", a["crs"])
	assert.Equal(t, map[string]interface{}{"x": 100.0, "y": 200.0, "z": 10.0}, a["world"])
	assert.Equal(t, map[string]interface{}{"x": 101.25, "y": 201.5, "z": 10.0}, a["transformed"])
	assert.Equal(t, "NAD83 / UTM zone 17N", a["target_crs"])

	var root map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &root))
	assert.Equal(t, "Unreferenced", root["state"])
	assert.NotContains(t, root, "crs")
	assert.NotContains(t, root, "world")

	var missing map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &missing))
	assert.Equal(t, []interface{}{map[string]interface{}{"kind": "DocumentNotFound", "message": "not found"}}, missing["diagnostics"])

	var summary struct {
		Summary struct {
			Nodes  int            `json:"nodes"`
			States map[string]int `json:"states"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[4]), &summary))
	assert.Equal(t, 4, summary.Summary.Nodes)
	assert.Equal(t, map[string]int{"Unreferenced": 1, "Unresolved": 1, "Done": 2}, summary.Summary.States)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &JSONPrinter{}, New(geoxform.OutputJSON, &bytes.Buffer{}, false))
	assert.IsType(t, &TextPrinter{}, New(geoxform.OutputText, &bytes.Buffer{}, true))
}
