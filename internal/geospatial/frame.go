package geospatial

import (
	"math"

	"github.com/rotisserie/eris"
)

// The two coordinate frames used by the engine are distinct types so that a
// geographic value can never be fed into planar distance math by accident.
// Conversion goes through Project/Unproject only.

// Geographic is a WGS84 longitude/latitude pair in decimal degrees.
type Geographic struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Projected is a planar point in the spherical web-mercator frame, in
// meters. Euclidean distance in this frame approximates ground distance at
// mid latitudes, which is what radius buffering needs.
type Projected struct {
	X float64
	Y float64
}

const (
	earthRadiusM = 6378137.0

	// maxMercatorLat is the latitude bound of the web-mercator projection.
	maxMercatorLat = 85.05112878
)

// Project converts a geographic point to the metric frame. Coordinates
// outside the projection's valid range are a reprojection failure.
func Project(g Geographic) (Projected, error) {
	if math.IsNaN(g.Lon) || math.IsNaN(g.Lat) ||
		g.Lon < -180 || g.Lon > 180 || g.Lat < -maxMercatorLat || g.Lat > maxMercatorLat {
		return Projected{}, eris.Wrapf(ErrReprojection,
			"geospatial: point (%.6f, %.6f) outside projectable range", g.Lon, g.Lat)
	}
	x := earthRadiusM * g.Lon * math.Pi / 180
	y := earthRadiusM * math.Log(math.Tan(math.Pi/4+g.Lat*math.Pi/360))
	return Projected{X: x, Y: y}, nil
}

// Unproject converts a metric-frame point back to geographic coordinates.
// Every Projected value produced by Project unprojects cleanly, so no error
// return is needed.
func Unproject(p Projected) Geographic {
	lon := p.X / earthRadiusM * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p.Y/earthRadiusM)) - math.Pi/2) * 180 / math.Pi
	return Geographic{Lon: lon, Lat: lat}
}

// metricDistance is the Euclidean distance between two metric-frame points.
func metricDistance(a, b Projected) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
