package geospatial

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Boundary is a validated query polygon in geographic coordinates.
// Membership is boundary-inclusive: a point exactly on an edge is inside.
// A Boundary built by Buffer additionally carries the exact circle it
// approximates, so radius queries stay correct at the boundary instead of
// being clipped to the inscribed polygon.
type Boundary struct {
	poly *geom.Polygon
	ring []float64 // closed flat lon/lat ring backing poly

	circle *bufferCircle
}

type bufferCircle struct {
	center Projected
	radius float64
}

// NewBoundary validates an ordered ring of vertices and returns a Boundary.
// The ring may arrive closed or open; a repeated closing vertex is dropped
// before validation. Vertex order (CW/CCW) does not matter.
func NewBoundary(vertices []Geographic) (*Boundary, error) {
	verts := dedupe(vertices)
	if len(verts) < 3 {
		return nil, eris.Wrapf(ErrInvalidGeometry,
			"geospatial: polygon needs at least 3 distinct vertices, got %d", len(verts))
	}
	for _, v := range verts {
		if math.IsNaN(v.Lon) || math.IsNaN(v.Lat) ||
			v.Lon < -180 || v.Lon > 180 || v.Lat < -90 || v.Lat > 90 {
			return nil, eris.Wrapf(ErrInvalidGeometry,
				"geospatial: polygon vertex (%.6f, %.6f) out of range", v.Lon, v.Lat)
		}
	}
	if ringArea(verts) == 0 {
		return nil, eris.Wrap(ErrInvalidGeometry, "geospatial: polygon has zero area")
	}
	if selfIntersects(verts) {
		return nil, eris.Wrap(ErrInvalidGeometry, "geospatial: polygon ring self-intersects")
	}

	flat := make([]float64, 0, (len(verts)+1)*2)
	for _, v := range verts {
		flat = append(flat, v.Lon, v.Lat)
	}
	flat = append(flat, verts[0].Lon, verts[0].Lat)

	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
		return nil, eris.Wrap(err, "geospatial: build polygon")
	}
	return &Boundary{poly: poly, ring: flat}, nil
}

// Contains reports whether a geographic point is inside or on the boundary.
func (b *Boundary) Contains(pt Geographic) bool {
	if b.circle != nil {
		p, err := Project(pt)
		if err != nil {
			return false
		}
		if metricDistance(p, b.circle.center) <= b.circle.radius*(1+1e-12) {
			return true
		}
		// fall through: the ring and the circle agree everywhere except
		// float dust at the rim, and the ring test below is a no-op cost.
	}
	coord := geom.Coord{pt.Lon, pt.Lat}
	if !b.poly.Bounds().OverlapsPoint(geom.XY, coord) {
		return false
	}
	if xy.IsPointInRing(geom.XY, coord, b.ring) {
		return true
	}
	return xy.IsOnLine(geom.XY, coord, b.ring)
}

// Bounds returns the geographic bounding box of the boundary.
func (b *Boundary) Bounds() *geom.Bounds {
	return b.poly.Bounds()
}

// Vertices returns the open ring of the boundary (closing vertex omitted).
func (b *Boundary) Vertices() []Geographic {
	n := len(b.ring)/2 - 1
	out := make([]Geographic, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Geographic{Lon: b.ring[2*i], Lat: b.ring[2*i+1]})
	}
	return out
}

// dedupe removes consecutive duplicate vertices and an explicit closing
// vertex equal to the first.
func dedupe(vertices []Geographic) []Geographic {
	out := make([]Geographic, 0, len(vertices))
	for _, v := range vertices {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// ringArea computes the signed shoelace area of an open ring. Only the
// zero/non-zero distinction matters to validation.
func ringArea(verts []Geographic) float64 {
	var sum float64
	n := len(verts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += verts[i].Lon*verts[j].Lat - verts[j].Lon*verts[i].Lat
	}
	return sum / 2
}

// selfIntersects reports whether any two non-adjacent edges of the open
// ring touch or cross. O(n^2), fine for hand-drawn polygons.
func selfIntersects(verts []Geographic) bool {
	n := len(verts)
	for i := 0; i < n; i++ {
		a1, a2 := verts[i], verts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue // adjacent edges share a vertex by construction
			}
			b1, b2 := verts[j], verts[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Geographic) bool {
	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(p3, p4, p1):
		return true
	case d2 == 0 && onSegment(p3, p4, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, p3):
		return true
	case d4 == 0 && onSegment(p1, p2, p4):
		return true
	}
	return false
}

// orient returns the cross product sign of (b-a) x (c-a).
func orient(a, b, c Geographic) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// onSegment assumes c is collinear with a-b and checks containment.
func onSegment(a, b, c Geographic) bool {
	return math.Min(a.Lon, b.Lon) <= c.Lon && c.Lon <= math.Max(a.Lon, b.Lon) &&
		math.Min(a.Lat, b.Lat) <= c.Lat && c.Lat <= math.Max(a.Lat, b.Lat)
}
