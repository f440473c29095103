package geospatial

import (
	"math"

	"github.com/rotisserie/eris"
)

// DefaultBufferSegments is the vertex count used for buffer polygons when
// the caller does not override it. A multiple of 4 keeps the polygon's
// bounding box identical to the circle's.
const DefaultBufferSegments = 64

// Buffer builds a polygon approximating a circle of radiusMeters around
// center. The center is projected into the metric frame, a regular polygon
// is walked at the requested radius, and every vertex is reprojected back
// to geographic coordinates. The returned Boundary also remembers the exact
// circle, so containment at exactly the radius is inclusive rather than
// clipped by the inscribed polygon.
func Buffer(center Geographic, radiusMeters float64, segments int) (*Boundary, error) {
	if radiusMeters <= 0 {
		return nil, eris.Wrapf(ErrInvalidGeometry,
			"geospatial: buffer radius must be positive, got %g", radiusMeters)
	}
	if segments < 8 {
		segments = DefaultBufferSegments
	}
	// Round up to a multiple of 4 so the polygon has a vertex at each
	// cardinal direction and its bounding box matches the circle's.
	if r := segments % 4; r != 0 {
		segments += 4 - r
	}

	c, err := Project(center)
	if err != nil {
		return nil, eris.Wrapf(err, "geospatial: buffer center invalid")
	}

	verts := make([]Geographic, 0, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		verts = append(verts, Unproject(Projected{
			X: c.X + radiusMeters*math.Cos(theta),
			Y: c.Y + radiusMeters*math.Sin(theta),
		}))
	}

	b, err := NewBoundary(verts)
	if err != nil {
		return nil, eris.Wrap(err, "geospatial: buffer ring")
	}
	b.circle = &bufferCircle{center: c, radius: radiusMeters}
	return b, nil
}
