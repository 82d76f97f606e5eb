package converters

import (
	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/cache"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
)

type transformerKey struct {
	source string
	target string
}

// TransformerCache builds transformers through a CoordinateConverter and keeps the
// most recently used ones. Transformers always exchange coordinates as
// (easting, northing), whatever axis order the definitions declare.
type TransformerCache struct {
	converter    CoordinateConverter
	transformers *cache.LRU[transformerKey, TransformFunc]
}

func NewTransformerCache(converter CoordinateConverter, capacity int) *TransformerCache {
	if capacity <= 0 {
		capacity = cache.DefaultCapacity
	}
	return &TransformerCache{
		converter:    converter,
		transformers: cache.NewLRU[transformerKey, TransformFunc](capacity),
	}
}

// Get returns the transformer from source to target. Build failures are
// TransformerBuildError and are not cached, failures of the returned function
// are TransformError.
func (c *TransformerCache) Get(source, target *crs.Descriptor) (TransformFunc, error) {
	key := transformerKey{source: source.Identity(), target: target.Identity()}

	fn, hit, err := c.transformers.GetOrLoad(key, func() (TransformFunc, error) {
		glog.V(1).Infof("Building transformer %s -> %s", source.Name(), target.Name())
		build, err := c.converter.BuildTransformer(source, target, crs.EastingNorthing)
		if err != nil {
			return nil, geoerr.Wrap(geoerr.TransformerBuildError, source.Name()+" -> "+target.Name(), err)
		}
		return wrapApply(build, source.Name()+" -> "+target.Name()), nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		glog.V(2).Infof("Transformer cache hit for %s -> %s", source.Name(), target.Name())
	}
	return fn, nil
}

// Transform converts a single coordinate from source to target
func (c *TransformerCache) Transform(source, target *crs.Descriptor, x, y float64) (float64, float64, error) {
	fn, err := c.Get(source, target)
	if err != nil {
		return 0, 0, err
	}
	return fn(x, y)
}

func (c *TransformerCache) Stats() cache.Stats {
	return c.transformers.Stats()
}

func (c *TransformerCache) Len() int {
	return c.transformers.Len()
}

// Releases the cached transformers and the converter's resources
func (c *TransformerCache) Cleanup() {
	c.transformers.Purge()
	c.converter.Cleanup()
}

func wrapApply(fn TransformFunc, subject string) TransformFunc {
	return func(x, y float64) (float64, float64, error) {
		tx, ty, err := fn(x, y)
		if err != nil {
			return 0, 0, geoerr.Wrap(geoerr.TransformError, subject, err)
		}
		return tx, ty, nil
	}
}
