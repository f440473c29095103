package geospatial

import "errors"

// Sentinel errors for the query-scoped failure classes. Callers classify
// with eris.Is after the wrapping layers have added context.
var (
	// ErrInvalidGeometry marks a polygon that cannot be evaluated:
	// too few distinct vertices, zero area, or a self-intersecting ring.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrReprojection marks a coordinate outside the valid range of the
	// metric projection.
	ErrReprojection = errors.New("reprojection failure")
)
