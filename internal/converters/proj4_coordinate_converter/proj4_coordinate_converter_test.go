package proj4_coordinate_converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/usd_geolocator/internal/converters"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
)

func preset(t *testing.T, name string) *crs.Descriptor {
	t.Helper()
	wkt, ok := crs.Preset(name)
	require.True(t, ok)
	d, err := crs.NewWKTParser().Parse(wkt)
	require.NoError(t, err)
	return d
}

// WGS 84 declared with longitude first, the order the transformers exchange
const wgs84EastFirst = `GEOGCS["WGS 84",
	DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],
	PRIMEM["Greenwich",0],
	UNIT["degree",0.0174532925199433],
	AXIS["Longitude",EAST],
	AXIS["Latitude",NORTH]]`

func TestCentralMeridian(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()

	toUTM, err := cc.BuildTransformer(preset(t, "wgs84"), preset(t, "nad83-utm17n"), crs.EastingNorthing)
	require.NoError(t, err)

	// on the central meridian the easting is the false easting
	x, y, err := toUTM(-81, 0)
	require.NoError(t, err)
	assert.InDelta(t, 500000, x, 1e-3)
	assert.InDelta(t, 0, y, 1e-3)
}

func TestRoundTrip(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()
	utm, wgs84 := preset(t, "nad83-utm17n"), preset(t, "wgs84")

	forward, err := cc.BuildTransformer(utm, wgs84, crs.EastingNorthing)
	require.NoError(t, err)
	back, err := cc.BuildTransformer(wgs84, utm, crs.EastingNorthing)
	require.NoError(t, err)

	const easting, northing = 630084.0, 4833438.0
	lon, lat, err := forward(easting, northing)
	require.NoError(t, err)
	assert.InDelta(t, -79.39, lon, 0.05)
	assert.InDelta(t, 43.64, lat, 0.05)

	x, y, err := back(lon, lat)
	require.NoError(t, err)
	assert.InDelta(t, easting, x, 1e-6)
	assert.InDelta(t, northing, y, 1e-6)
}

func TestAxisOrderNormalization(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()
	utm := preset(t, "nad83-utm17n")
	northFirst := preset(t, "wgs84")
	eastFirst := crs.MustParse(wgs84EastFirst)
	require.Equal(t, crs.NorthingEasting, northFirst.NativeAxisOrder())
	require.Equal(t, crs.EastingNorthing, eastFirst.NativeAxisOrder())

	a, err := cc.BuildTransformer(utm, northFirst, crs.EastingNorthing)
	require.NoError(t, err)
	b, err := cc.BuildTransformer(utm, eastFirst, crs.EastingNorthing)
	require.NoError(t, err)

	ax, ay, err := a(630084, 4833438)
	require.NoError(t, err)
	bx, by, err := b(630084, 4833438)
	require.NoError(t, err)
	assert.InDelta(t, bx, ax, 1e-9)
	assert.InDelta(t, by, ay, 1e-9)
	assert.Less(t, ax, 0.0, "x holds the longitude")
}

func TestWebMercator(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()

	fn, err := cc.BuildTransformer(preset(t, "wgs84"), preset(t, "web-mercator"), crs.EastingNorthing)
	require.NoError(t, err)
	x, y, err := fn(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestThroughTransformerCache(t *testing.T) {
	tc := converters.NewTransformerCache(NewProj4CoordinateConverter(), 32)
	defer tc.Cleanup()
	utm, wgs84 := preset(t, "nad83-utm17n"), preset(t, "wgs84")

	lon, lat, err := tc.Transform(utm, wgs84, 500000, 0)
	require.NoError(t, err)
	assert.InDelta(t, -81, lon, 1e-9)
	assert.InDelta(t, 0, lat, 1e-9)

	_, _, err = tc.Transform(utm, wgs84, 500000, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, tc.Stats().Hits)
}

func TestTransformerAfterCleanup(t *testing.T) {
	cc := NewProj4CoordinateConverter()
	defer cc.Cleanup()
	utm, wgs84 := preset(t, "nad83-utm17n"), preset(t, "wgs84")

	stale, err := cc.BuildTransformer(utm, wgs84, crs.EastingNorthing)
	require.NoError(t, err)
	cc.Cleanup()

	_, _, err = stale(500000, 0)
	assert.Error(t, err)

	// rebuilding reinitializes the projections, the stale transformer stays unusable
	fresh, err := cc.BuildTransformer(utm, wgs84, crs.EastingNorthing)
	require.NoError(t, err)
	_, _, err = stale(500000, 0)
	assert.Error(t, err)

	lon, lat, err := fresh(500000, 0)
	require.NoError(t, err)
	assert.InDelta(t, -81, lon, 1e-9)
	assert.InDelta(t, 0, lat, 1e-9)
}
