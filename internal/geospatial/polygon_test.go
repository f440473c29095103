package geospatial

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectangle(minLon, minLat, maxLon, maxLat float64) []Geographic {
	return []Geographic{
		{Lon: minLon, Lat: minLat},
		{Lon: maxLon, Lat: minLat},
		{Lon: maxLon, Lat: maxLat},
		{Lon: minLon, Lat: maxLat},
	}
}

func TestNewBoundary_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		verts []Geographic
	}{
		{"empty", nil},
		{"single click", []Geographic{{Lon: -77, Lat: 38.9}}},
		{"two point line", []Geographic{{Lon: -77, Lat: 38.9}, {Lon: -76.9, Lat: 38.9}}},
		{"two points closed", []Geographic{{Lon: -77, Lat: 38.9}, {Lon: -76.9, Lat: 38.9}, {Lon: -77, Lat: 38.9}}},
		{"repeated vertex only", []Geographic{{Lon: -77, Lat: 38.9}, {Lon: -77, Lat: 38.9}, {Lon: -77, Lat: 38.9}}},
		{"zero area collinear", []Geographic{{Lon: -77, Lat: 38.9}, {Lon: -76.9, Lat: 38.9}, {Lon: -76.8, Lat: 38.9}}},
		{"bowtie", []Geographic{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 1, Lat: 0}, {Lon: 0, Lat: 1}}},
		{"vertex out of range", []Geographic{{Lon: -200, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoundary(tt.verts)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidGeometry), "got: %v", err)
		})
	}
}

func TestNewBoundary_AutoClose(t *testing.T) {
	open, err := NewBoundary(rectangle(-77.1, 38.8, -76.9, 39.0))
	require.NoError(t, err)

	closed, err := NewBoundary(append(rectangle(-77.1, 38.8, -76.9, 39.0), Geographic{Lon: -77.1, Lat: 38.8}))
	require.NoError(t, err)

	assert.Equal(t, open.Vertices(), closed.Vertices())
}

func TestContains_InsideOutside(t *testing.T) {
	b, err := NewBoundary(rectangle(-77.1, 38.8, -76.9, 39.0))
	require.NoError(t, err)

	assert.True(t, b.Contains(Geographic{Lon: -77.0, Lat: 38.9}))
	assert.False(t, b.Contains(Geographic{Lon: -77.2, Lat: 38.9}))
	assert.False(t, b.Contains(Geographic{Lon: -77.0, Lat: 39.1}))
}

func TestContains_BoundaryInclusive(t *testing.T) {
	b, err := NewBoundary(rectangle(-77.1, 38.8, -76.9, 39.0))
	require.NoError(t, err)

	// Point coincident with an edge, and a corner vertex.
	assert.True(t, b.Contains(Geographic{Lon: -77.0, Lat: 38.8}), "edge midpoint")
	assert.True(t, b.Contains(Geographic{Lon: -77.1, Lat: 38.9}), "edge midpoint vertical")
	assert.True(t, b.Contains(Geographic{Lon: -77.1, Lat: 38.8}), "corner vertex")
}

func TestContains_OrientationIndependent(t *testing.T) {
	ccw := rectangle(-77.1, 38.8, -76.9, 39.0)
	cw := []Geographic{ccw[3], ccw[2], ccw[1], ccw[0]}

	b1, err := NewBoundary(ccw)
	require.NoError(t, err)
	b2, err := NewBoundary(cw)
	require.NoError(t, err)

	probes := []Geographic{
		{Lon: -77.0, Lat: 38.9},
		{Lon: -77.2, Lat: 38.9},
		{Lon: -77.0, Lat: 38.8},
	}
	for _, p := range probes {
		assert.Equal(t, b1.Contains(p), b2.Contains(p), "probe %+v", p)
	}
}

func TestContains_ConcavePolygon(t *testing.T) {
	// L-shape: the notch must be outside.
	b, err := NewBoundary([]Geographic{
		{Lon: 0, Lat: 0},
		{Lon: 4, Lat: 0},
		{Lon: 4, Lat: 4},
		{Lon: 2, Lat: 4},
		{Lon: 2, Lat: 2},
		{Lon: 0, Lat: 2},
	})
	require.NoError(t, err)

	assert.True(t, b.Contains(Geographic{Lon: 1, Lat: 1}))
	assert.True(t, b.Contains(Geographic{Lon: 3, Lat: 3}))
	assert.False(t, b.Contains(Geographic{Lon: 1, Lat: 3})) // inside the notch
}
