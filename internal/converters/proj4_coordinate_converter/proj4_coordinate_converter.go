package proj4_coordinate_converter

import (
	"errors"
	"math"
	"sync"

	"github.com/golang/glog"
	proj "github.com/xeonx/proj4"

	"github.com/ecopia-map/usd_geolocator/internal/converters"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
)

const (
	toRadians = math.Pi / 180
	toDegrees = 180 / math.Pi
)

type proj4CoordinateConverter struct {
	mu          sync.Mutex
	projections map[string]*proj.Proj
	// bumped by Cleanup, transformers built before it refuse to run
	generation int
}

func NewProj4CoordinateConverter() converters.CoordinateConverter {
	return &proj4CoordinateConverter{
		projections: make(map[string]*proj.Proj),
	}
}

// Builds a transformer between the PROJ.4 renditions of source and target. Lat/long
// systems take and return degrees.
func (cc *proj4CoordinateConverter) BuildTransformer(source, target *crs.Descriptor, order crs.AxisOrder) (converters.TransformFunc, error) {
	srcDefinition, err := source.Proj4(order)
	if err != nil {
		return nil, err
	}
	dstDefinition, err := target.Proj4(order)
	if err != nil {
		return nil, err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	src, err := cc.initProjection(srcDefinition)
	if err != nil {
		return nil, err
	}
	dst, err := cc.initProjection(dstDefinition)
	if err != nil {
		return nil, err
	}
	generation := cc.generation

	return func(x, y float64) (float64, float64, error) {
		return cc.transform(src, dst, generation, x, y)
	}, nil
}

func (cc *proj4CoordinateConverter) transform(src, dst *proj.Proj, generation int, x, y float64) (float64, float64, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.projections == nil || generation != cc.generation {
		return 0, 0, errors.New("converter was cleaned up")
	}

	if src.IsLatLong() {
		x, y = x*toRadians, y*toRadians
	}
	xs, ys := []float64{x}, []float64{y}
	if err := proj.TransformRaw(src, dst, xs, ys, nil); err != nil {
		return 0, 0, err
	}
	if math.IsInf(xs[0], 0) || math.IsNaN(xs[0]) || math.IsInf(ys[0], 0) || math.IsNaN(ys[0]) {
		return 0, 0, errors.New("coordinate cannot be projected")
	}
	if dst.IsLatLong() {
		return xs[0] * toDegrees, ys[0] * toDegrees, nil
	}
	return xs[0], ys[0], nil
}

// Returns the projection for a definition, initializing it on first use.
// The caller holds the lock.
func (cc *proj4CoordinateConverter) initProjection(definition string) (*proj.Proj, error) {
	if cc.projections == nil {
		cc.projections = make(map[string]*proj.Proj)
	}
	if p, ok := cc.projections[definition]; ok {
		return p, nil
	}

	glog.V(1).Infof("Initializing projection %s", definition)
	p, err := proj.InitPlus(definition)
	if err != nil {
		return nil, err
	}
	cc.projections[definition] = p
	return p, nil
}

// Releases all the initialized projection objects
func (cc *proj4CoordinateConverter) Cleanup() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	for _, p := range cc.projections {
		p.Close()
	}
	cc.projections = nil
	cc.generation++
}
