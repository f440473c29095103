package geospatial

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_RoundTrip(t *testing.T) {
	pts := []Geographic{
		{Lon: -77.0369, Lat: 38.9072}, // downtown DC
		{Lon: 0, Lat: 0},
		{Lon: 179.9, Lat: -84.9},
		{Lon: -179.9, Lat: 84.9},
	}
	for _, g := range pts {
		p, err := Project(g)
		require.NoError(t, err)
		back := Unproject(p)
		assert.InDelta(t, g.Lon, back.Lon, 1e-9)
		assert.InDelta(t, g.Lat, back.Lat, 1e-9)
	}
}

func TestProject_OutOfRange(t *testing.T) {
	bad := []Geographic{
		{Lon: -181, Lat: 0},
		{Lon: 181, Lat: 0},
		{Lon: 0, Lat: 86},
		{Lon: 0, Lat: -86},
		{Lon: math.NaN(), Lat: 0},
		{Lon: 0, Lat: math.NaN()},
	}
	for _, g := range bad {
		_, err := Project(g)
		require.Error(t, err, "point %+v", g)
		assert.True(t, eris.Is(err, ErrReprojection))
	}
}

func TestProject_MetricScaleNearEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111.32 km, and web
	// mercator is exact in X there.
	a, err := Project(Geographic{Lon: 0, Lat: 0})
	require.NoError(t, err)
	b, err := Project(Geographic{Lon: 1, Lat: 0})
	require.NoError(t, err)
	assert.InDelta(t, 111319.49, b.X-a.X, 1.0)
}
