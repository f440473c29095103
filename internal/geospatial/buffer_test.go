package geospatial

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dcCenter = Geographic{Lon: -76.972, Lat: 38.890}

func TestBuffer_InvalidInput(t *testing.T) {
	_, err := Buffer(dcCenter, 0, 64)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidGeometry))

	_, err = Buffer(dcCenter, -10, 64)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidGeometry))

	_, err = Buffer(Geographic{Lon: -76.972, Lat: 91}, 500, 64)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrReprojection))
}

func TestBuffer_ContainsByDistance(t *testing.T) {
	const radius = 800.0
	b, err := Buffer(dcCenter, radius, 64)
	require.NoError(t, err)

	c, err := Project(dcCenter)
	require.NoError(t, err)

	at := func(dx, dy float64) Geographic {
		return Unproject(Projected{X: c.X + dx, Y: c.Y + dy})
	}

	assert.True(t, b.Contains(dcCenter), "center")
	assert.True(t, b.Contains(at(radius-1, 0)), "just inside")
	assert.True(t, b.Contains(at(0, -(radius-1))), "just inside south")
	assert.False(t, b.Contains(at(radius+1, 0)), "just outside")
	assert.False(t, b.Contains(at(0, radius+1)), "just outside north")

	// Exactly on the rim is inside (boundary-inclusive), even between
	// polygon vertices where the inscribed ring falls short.
	assert.True(t, b.Contains(at(radius, 0)), "on rim at vertex")
	theta := math.Pi / 64 // halfway between the first two vertices
	assert.True(t, b.Contains(at(radius*math.Cos(theta), radius*math.Sin(theta))), "on rim between vertices")
}

func TestBuffer_VerticesRoundTrip(t *testing.T) {
	b, err := Buffer(dcCenter, 804.67, 64)
	require.NoError(t, err)

	verts := b.Vertices()
	require.Len(t, verts, 64)

	c, err := Project(dcCenter)
	require.NoError(t, err)
	for _, v := range verts {
		p, err := Project(v)
		require.NoError(t, err)
		assert.InDelta(t, 804.67, metricDistance(p, c), 1e-6)
	}
}

func TestBuffer_DefaultSegments(t *testing.T) {
	b, err := Buffer(dcCenter, 500, 0)
	require.NoError(t, err)
	assert.Len(t, b.Vertices(), DefaultBufferSegments)
}

func TestBuffer_SegmentsRoundedToCardinals(t *testing.T) {
	const radius = 5000.0
	b, err := Buffer(dcCenter, radius, 10)
	require.NoError(t, err)
	require.Len(t, b.Vertices(), 12, "10 segments round up to 12")

	// With a vertex at each cardinal direction the polygon's bounding box
	// spans the full circle.
	c, err := Project(dcCenter)
	require.NoError(t, err)
	north := Unproject(Projected{X: c.X, Y: c.Y + radius})
	bounds := b.Bounds()
	assert.GreaterOrEqual(t, bounds.Max(1)+1e-9, north.Lat)
}
