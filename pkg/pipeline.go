package pkg

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/converters"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/data"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
	"github.com/ecopia-map/usd_geolocator/internal/georef"
	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
	"github.com/ecopia-map/usd_geolocator/pkg/algorithm_manager"
	"github.com/ecopia-map/usd_geolocator/tools"
)

type IPipeline interface {
	RunPipeline() error
	ProcessDocument(path string, target *crs.Descriptor) ([]geoxform.NodeReport, error)
	ResolveTarget(spec string, baseFolder string) (*crs.Descriptor, error)
}

// Pipeline geolocates the prims of a set of documents. The reference and
// transformer caches live as long as the pipeline.
type Pipeline struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
	sink             geoxform.Sink
	opts             *geoxform.GeolocatorOptions
	resolver         *georef.Resolver
	transformers     *converters.TransformerCache
	summary          geoxform.Summary
}

func NewPipeline(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager, sink geoxform.Sink, opts *geoxform.GeolocatorOptions) IPipeline {
	if sink == nil {
		sink = geoxform.DiscardSink()
	}
	if opts == nil {
		opts = geoxform.DefaultOptions()
	}

	resolverOpts := georef.DefaultResolverOptions()
	resolverOpts.Capacity = opts.ReferenceCacheSize
	resolverOpts.CacheFailures = opts.CacheFailures
	if opts.InlineAttribute != "" && opts.InlineAttribute != georef.InlineAttribute {
		resolverOpts.TargetAttributes = append([]string{opts.InlineAttribute}, resolverOpts.TargetAttributes...)
	}

	return &Pipeline{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
		sink:             sink,
		opts:             opts,
		resolver: georef.NewResolver(
			algorithmManager.GetSceneProvider(),
			algorithmManager.GetCRSParser(),
			resolverOpts,
		),
		transformers: converters.NewTransformerCache(
			algorithmManager.GetCoordinateConverterAlgorithm(),
			opts.TransformerCacheSize,
		),
		summary: geoxform.Summary{States: map[geoxform.NodeState]int{}},
	}
}

// Starts the geolocation of every document selected by the options
func (p *Pipeline) RunPipeline() error {
	defer p.transformers.Cleanup()

	tools.LogOutput("Preparing list of documents to process...")
	documents, err := p.fileFinder.GetDocumentsToProcess(p.opts)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		return fmt.Errorf("no .usda documents found in %s", p.opts.Input)
	}
	glog.V(1).Infof("Documents to process: %v", documents)

	target, err := p.ResolveTarget(p.opts.TargetCRS, p.targetBaseFolder())
	if err != nil {
		return fmt.Errorf("target CRS %q: %w", p.opts.TargetCRS, err)
	}
	if target != nil {
		tools.LogOutput("Target CRS:", target.Name())
	}

	for i, path := range documents {
		tools.LogOutput("Processing document " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(documents)))
		_, err := p.processDocument(path, target, i+1, len(documents))
		if err == nil {
			tools.LogOutput("> done processing", filepath.Base(path))
			continue
		}
		if !p.opts.FolderProcessing {
			return err
		}
		glog.Errorf("Skipping %s: %v", path, err)
		p.summary.FailedDocuments++
	}

	p.sink.End(p.Summary())

	if p.summary.FailedDocuments > 0 {
		return fmt.Errorf("%d of %d documents could not be opened", p.summary.FailedDocuments, len(documents))
	}
	return nil
}

// ProcessDocument geolocates every prim of a single document. Only a document
// that cannot be opened is an error, prim failures end up in the reports.
func (p *Pipeline) ProcessDocument(path string, target *crs.Descriptor) ([]geoxform.NodeReport, error) {
	return p.processDocument(path, target, 1, 1)
}

// Summary returns the totals accumulated so far
func (p *Pipeline) Summary() geoxform.Summary {
	s := p.summary
	s.States = make(map[geoxform.NodeState]int, len(p.summary.States))
	for state, n := range p.summary.States {
		s.States[state] = n
	}
	stats := p.resolver.Stats()
	s.ReferenceCache = stats.Cache
	s.DocumentsOpened = stats.DocumentsOpened
	s.TransformerCache = p.transformers.Stats()
	return s
}

func (p *Pipeline) processDocument(path string, target *crs.Descriptor, index, total int) ([]geoxform.NodeReport, error) {
	doc, err := p.openDocument(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	p.summary.Documents++

	info := geoxform.DocumentInfo{
		Path:        path,
		DefaultPrim: doc.DefaultPrim(),
		Index:       index,
		Total:       total,
	}
	if target != nil {
		info.TargetName = target.Name()
		info.TargetKind = target.Kind()
	}
	p.sink.Begin(info)

	locator := georef.NewLocator(georef.LocatorOptions{
		ReferenceAttribute: p.opts.ReferenceAttribute,
		InlineAttribute:    p.opts.InlineAttribute,
		BaseFolder:         p.documentBaseFolder(path),
	})

	nodes := doc.Traverse()
	reports := make([]geoxform.NodeReport, 0, len(nodes))
	for _, node := range nodes {
		report := p.processNode(node, locator, target)

		p.summary.Nodes++
		p.summary.States[report.State]++
		p.summary.Diagnostics += len(report.Diagnostics)

		p.sink.Node(report)
		reports = append(reports, report)
	}
	return reports, nil
}

func (p *Pipeline) openDocument(path string) (scene.Document, error) {
	provider := p.algorithmManager.GetSceneProvider()
	if !provider.Exists(path) {
		return nil, geoerr.New(geoerr.DocumentNotFound, path, "document not found")
	}
	doc, err := provider.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, geoerr.Wrap(geoerr.DocumentNotFound, path, err)
		}
		return nil, geoerr.Wrap(geoerr.DocumentOpenError, path, err)
	}
	return doc, nil
}

// processNode walks a prim through the geolocation states:
// LocatingCRS, then Unreferenced or ResolvingCRS, then Unresolved or Resolved,
// then ExtractingPosition and Transforming when a matrix and a target are available.
func (p *Pipeline) processNode(node *scene.Node, locator *georef.Locator, target *crs.Descriptor) geoxform.NodeReport {
	report := geoxform.NodeReport{
		Path:      node.Path(),
		TypeName:  node.TypeName(),
		Xformable: node.IsXformable(),
		State:     geoxform.Unvisited,
	}
	if report.Xformable {
		ops, err := node.XformOps()
		if err != nil {
			glog.Warningf("%s: %v", node.Path(), err)
		}
		report.XformOps = ops
		if m, err := node.ComputeWorldTransform(); err == nil {
			report.WorldTransform = &m
		} else {
			glog.Warningf("%s: world transform unavailable: %v", node.Path(), err)
		}
	}

	report.State = geoxform.LocatingCRS
	value, found := locator.Locate(node)
	if !found {
		report.State = geoxform.Unreferenced
		return report
	}
	report.AuthoredOn = value.AuthoredOn()
	switch v := value.(type) {
	case georef.IndirectRef:
		report.Reference = v.Pointer()
	case georef.MalformedRef:
		report.Reference = v.Raw
	}

	report.State = geoxform.ResolvingCRS
	desc, err := p.resolver.ResolveValue(value)
	if err != nil {
		report.State = geoxform.Unresolved
		report.Diagnostics = append(report.Diagnostics, geoxform.NewDiagnostic(node.Path(), err))
		return report
	}
	report.State = geoxform.Resolved
	report.CRSName = desc.Name()
	report.CRSKind = desc.Kind()

	if report.WorldTransform == nil {
		report.State = geoxform.Done
		return report
	}

	report.State = geoxform.ExtractingPosition
	x, y, z, ok := data.WorldPosition(node)
	if !ok {
		report.State = geoxform.Done
		return report
	}
	record := data.NewResultRecord(node.Path(), desc.Name(), x, y, z)
	report.Record = record

	if target == nil {
		report.State = geoxform.Done
		return report
	}

	report.State = geoxform.Transforming
	tx, ty, err := p.transformers.Transform(desc, target, x, y)
	if err != nil {
		glog.Warningf("%s: %v", node.Path(), err)
		report.Diagnostics = append(report.Diagnostics, geoxform.NewDiagnostic(node.Path(), err))
	} else {
		report.Record = record.WithTransformed(tools.ZeroIfNegligible(tx), tools.ZeroIfNegligible(ty))
	}
	report.State = geoxform.Done
	return report
}

// ResolveTarget turns a target CRS specification into a descriptor. The
// specification is tried as "none", a preset name, a document<target> pointer,
// a WKT file and finally as inline WKT. A nil descriptor disables reprojection.
func (p *Pipeline) ResolveTarget(spec string, baseFolder string) (*crs.Descriptor, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, geoxform.TargetNone) {
		return nil, nil
	}

	parser := p.algorithmManager.GetCRSParser()
	if wkt, ok := crs.Preset(spec); ok {
		return parser.Parse(wkt)
	}

	if looksLikePointer(spec) {
		ref, err := georef.ParseReference(spec, baseFolder)
		if err != nil {
			return nil, err
		}
		return p.resolver.Resolve(ref)
	}

	content, ok, err := tools.ReadTextFile(spec)
	if err != nil {
		return nil, geoerr.Wrap(geoerr.DocumentOpenError, spec, err)
	}
	if ok {
		return parser.Parse(content)
	}
	return parser.Parse(spec)
}

// a pointer ends with <target>, WKT always ends with a bracket
func looksLikePointer(spec string) bool {
	return strings.HasSuffix(spec, ">") && strings.Contains(spec, "<")
}

func (p *Pipeline) documentBaseFolder(path string) string {
	if p.opts.BaseFolder != "" {
		return p.opts.BaseFolder
	}
	return filepath.Dir(path)
}

func (p *Pipeline) targetBaseFolder() string {
	if p.opts.BaseFolder != "" {
		return p.opts.BaseFolder
	}
	if p.opts.FolderProcessing {
		return p.opts.Input
	}
	return filepath.Dir(p.opts.Input)
}
