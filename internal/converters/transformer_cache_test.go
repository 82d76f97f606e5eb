package converters

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoerr"
)

func geographic(name string) *crs.Descriptor {
	return crs.MustParse(`GEOGCS["` + name + `",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`)
}

// shiftConverter offsets coordinates by one unit per build and records what it was asked for
type shiftConverter struct {
	builds  int
	orders  []crs.AxisOrder
	cleaned bool
}

func (c *shiftConverter) BuildTransformer(source, target *crs.Descriptor, order crs.AxisOrder) (TransformFunc, error) {
	c.builds++
	c.orders = append(c.orders, order)
	if target.Name() == "unbuildable" {
		return nil, errors.New("no path between systems")
	}
	shift := float64(c.builds)
	return func(x, y float64) (float64, float64, error) {
		if x < 0 {
			return 0, 0, errors.New("outside the area of use")
		}
		return x + shift, y + shift, nil
	}, nil
}

func (c *shiftConverter) Cleanup() {
	c.cleaned = true
}

func TestTransformerCacheBuildsOnce(t *testing.T) {
	conv := &shiftConverter{}
	tc := NewTransformerCache(conv, 32)
	a, b := geographic("a"), geographic("b")

	x, y, err := tc.Transform(a, b, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 21.0, y)

	// an equivalent descriptor parsed again shares the identity
	x, y, err = tc.Transform(geographic("a"), b, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 11.0, x)
	assert.Equal(t, 21.0, y)

	assert.Equal(t, 1, conv.builds)
	assert.Equal(t, []crs.AxisOrder{crs.EastingNorthing}, conv.orders)
	assert.Equal(t, 1, tc.Stats().Hits)

	// the reverse direction is a different transformer
	_, err = tc.Get(b, a)
	require.NoError(t, err)
	assert.Equal(t, 2, conv.builds)
}

func TestTransformerCacheBuildFailure(t *testing.T) {
	conv := &shiftConverter{}
	tc := NewTransformerCache(conv, 32)
	a, broken := geographic("a"), geographic("unbuildable")

	for i := 0; i < 2; i++ {
		fn, err := tc.Get(a, broken)
		assert.Nil(t, fn)
		assert.True(t, geoerr.Is(err, geoerr.TransformerBuildError), "%v", err)
	}
	// failures are not cached
	assert.Equal(t, 2, conv.builds)
	assert.Equal(t, 0, tc.Len())
}

func TestTransformerCacheApplyFailure(t *testing.T) {
	tc := NewTransformerCache(&shiftConverter{}, 32)
	_, _, err := tc.Transform(geographic("a"), geographic("b"), -1, 0)
	require.Error(t, err)
	assert.True(t, geoerr.Is(err, geoerr.TransformError))
}

func TestTransformerCacheBound(t *testing.T) {
	conv := &shiftConverter{}
	tc := NewTransformerCache(conv, 32)
	source := geographic("source")

	targets := make([]*crs.Descriptor, 40)
	for i := range targets {
		targets[i] = geographic(fmt.Sprintf("target %d", i))
		_, err := tc.Get(source, targets[i])
		require.NoError(t, err)
		assert.LessOrEqual(t, tc.Len(), 32)
	}
	assert.Equal(t, 32, tc.Len())
	assert.Equal(t, 8, tc.Stats().Evictions)

	// target 0 was the least recently used and has to be built again
	_, err := tc.Get(source, targets[0])
	require.NoError(t, err)
	assert.Equal(t, 41, conv.builds)

	_, err = tc.Get(source, targets[39])
	require.NoError(t, err)
	assert.Equal(t, 41, conv.builds)
}

func TestTransformerCacheCleanup(t *testing.T) {
	conv := &shiftConverter{}
	tc := NewTransformerCache(conv, 0)
	assert.Equal(t, 32, tc.Stats().Capacity)

	_, err := tc.Get(geographic("a"), geographic("b"))
	require.NoError(t, err)
	tc.Cleanup()
	assert.True(t, conv.cleaned)
	assert.Equal(t, 0, tc.Len())
}
