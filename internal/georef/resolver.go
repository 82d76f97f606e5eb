package georef

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/cache"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

// attributes read on the target node of a reference, in order of preference
var defaultTargetAttributes = []string{"geolocation:crs:wkt", InlineAttribute}

type ResolverOptions struct {
	// Capacity bounds the number of cached resolutions
	Capacity int

	// CacheFailures keeps failed resolutions so a broken pointer is probed once per run
	CacheFailures bool

	// TargetAttributes are read on the referenced prim, first authored wins
	TargetAttributes []string
}

func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		Capacity:         cache.DefaultCapacity,
		CacheFailures:    true,
		TargetAttributes: defaultTargetAttributes,
	}
}

type ResolverStats struct {
	Cache           cache.Stats
	DocumentsOpened int
}

type refKey struct {
	pointer    string
	baseFolder string
}

// refEntry is either a resolved descriptor or the failure that prevented it
type refEntry struct {
	desc *crs.Descriptor
	err  error
}

func (e refEntry) unresolved() bool {
	return e.err != nil
}

// Resolver resolves cross-document references to CRS descriptors and memoizes the results
type Resolver struct {
	provider scene.Provider
	parser   crs.Parser
	opts     ResolverOptions
	refs     *cache.LRU[refKey, refEntry]
	opened   atomic.Int64
}

func NewResolver(provider scene.Provider, parser crs.Parser, opts ResolverOptions) *Resolver {
	if opts.Capacity <= 0 {
		opts.Capacity = cache.DefaultCapacity
	}
	if len(opts.TargetAttributes) == 0 {
		opts.TargetAttributes = defaultTargetAttributes
	}
	return &Resolver{
		provider: provider,
		parser:   parser,
		opts:     opts,
		refs:     cache.NewLRU[refKey, refEntry](opts.Capacity),
	}
}

// Resolve returns the descriptor the reference points to. A cached result is
// returned without touching the filesystem, including cached failures.
func (r *Resolver) Resolve(ref IndirectRef) (*crs.Descriptor, error) {
	key := refKey{pointer: ref.Pointer(), baseFolder: ref.BaseFolder}

	entry, hit, err := r.refs.GetOrLoad(key, func() (refEntry, error) {
		desc, err := r.load(ref)
		if err != nil {
			glog.Warningf("Could not resolve %s: %v", ref.Pointer(), err)
			if r.opts.CacheFailures {
				return refEntry{err: err}, nil
			}
			return refEntry{}, err
		}
		return refEntry{desc: desc}, nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		glog.V(2).Infof("Reference cache hit for %s", ref.Pointer())
	}
	if entry.unresolved() {
		return nil, entry.err
	}
	return entry.desc, nil
}

// ResolveValue turns any located georeference into a descriptor. Inline text is
// parsed on every call.
func (r *Resolver) ResolveValue(v Value) (*crs.Descriptor, error) {
	switch v := v.(type) {
	case Inline:
		return r.parser.Parse(v.Text)
	case IndirectRef:
		return r.Resolve(v)
	case MalformedRef:
		return nil, v.Err
	}
	return nil, errors.New("unknown georeference value")
}

func (r *Resolver) Stats() ResolverStats {
	return ResolverStats{
		Cache:           r.refs.Stats(),
		DocumentsOpened: int(r.opened.Load()),
	}
}

func (r *Resolver) load(ref IndirectRef) (*crs.Descriptor, error) {
	file := ref.DocumentFile()
	if !r.provider.Exists(file) {
		return nil, geoerr.New(geoerr.DocumentNotFound, file, "geospatial document not found")
	}

	r.opened.Add(1)
	doc, err := r.provider.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, geoerr.Wrap(geoerr.DocumentNotFound, file, err)
		}
		return nil, geoerr.Wrap(geoerr.DocumentOpenError, file, err)
	}
	defer doc.Close()

	node, ok := doc.NodeAtPath(ref.TargetPath)
	if !ok {
		return nil, geoerr.New(geoerr.TargetNotFound, ref.Pointer(), "no prim at %s in %s", ref.TargetPath, file)
	}

	text, err := r.definition(node)
	if err != nil {
		return nil, geoerr.Wrap(geoerr.AttributeMissing, ref.Pointer(), err)
	}

	desc, err := r.parser.Parse(text)
	if err != nil {
		if !geoerr.Is(err, geoerr.CRSParseError) {
			err = geoerr.Wrap(geoerr.CRSParseError, ref.Pointer(), err)
		}
		return nil, err
	}
	return desc.WithOrigin(ref.Pointer()), nil
}

func (r *Resolver) definition(node *scene.Node) (string, error) {
	for _, name := range r.opts.TargetAttributes {
		v, ok := node.AuthoredValue(name)
		if !ok {
			continue
		}
		text, ok := v.Text()
		if !ok {
			return "", fmt.Errorf("%s on %s is not text", name, node.Path())
		}
		return text, nil
	}
	return "", fmt.Errorf("%s is not authored on %s", r.opts.TargetAttributes[0], node.Path())
}
