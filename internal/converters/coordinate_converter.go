package converters

import (
	"github.com/ecopia-map/usd_geolocator/internal/crs"
)

// TransformFunc maps a planar coordinate from one CRS to another
type TransformFunc func(x, y float64) (float64, float64, error)

type CoordinateConverter interface {
	// BuildTransformer returns a function converting coordinates from source to target,
	// exchanging them in the given axis order on both ends
	BuildTransformer(source, target *crs.Descriptor, order crs.AxisOrder) (TransformFunc, error)
	Cleanup()
}
