// Package query orchestrates boundary evaluation: batch runs over named
// areas and the interactive one-polygon-per-request service.
package query

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/district-analytics/parcelscope/internal/areas"
	"github.com/district-analytics/parcelscope/internal/geospatial"
)

// Engine drives the buffer -> evaluate -> aggregate pipeline against one
// immutable dataset. It is safe for concurrent use.
type Engine struct {
	ds             *geospatial.Dataset
	bufferSegments int
}

// NewEngine wraps a dataset. segments controls buffer polygon resolution;
// zero means the default.
func NewEngine(ds *geospatial.Dataset, segments int) *Engine {
	if segments <= 0 {
		segments = geospatial.DefaultBufferSegments
	}
	return &Engine{ds: ds, bufferSegments: segments}
}

// Dataset exposes the underlying dataset for health/status reporting.
func (e *Engine) Dataset() *geospatial.Dataset { return e.ds }

// Boundary builds the query boundary for an area definition.
func (e *Engine) Boundary(area areas.Area) (*geospatial.Boundary, error) {
	if area.Buffered() {
		return geospatial.Buffer(
			geospatial.Geographic{Lon: area.Center.Lon, Lat: area.Center.Lat},
			area.RadiusMeters,
			e.bufferSegments,
		)
	}
	verts := make([]geospatial.Geographic, 0, len(area.Polygon))
	for _, v := range area.Polygon {
		verts = append(verts, geospatial.Geographic{Lon: v[0], Lat: v[1]})
	}
	return geospatial.NewBoundary(verts)
}

// RunArea evaluates one named area and returns its grouped aggregation.
func (e *Engine) RunArea(area areas.Area) (geospatial.AggregationResult, error) {
	if err := area.Validate(); err != nil {
		return geospatial.AggregationResult{}, err
	}
	boundary, err := e.Boundary(area)
	if err != nil {
		return geospatial.AggregationResult{}, eris.Wrapf(err, "query: area %s", area.Name)
	}
	parcels := e.ds.QueryWithin(boundary)
	return geospatial.Aggregate(parcels, true), nil
}

// AreaResult pairs an area with its aggregation or its failure. A failed
// area never aborts the other areas in a batch.
type AreaResult struct {
	Area        areas.Area
	Aggregation geospatial.AggregationResult
	Err         error
}

// RunBatch evaluates all areas, up to parallelism at a time, each reading
// the immutable dataset and writing only its own result slot. Results come
// back in input order.
func (e *Engine) RunBatch(ctx context.Context, list []areas.Area, parallelism int) []AreaResult {
	if parallelism <= 0 {
		parallelism = 1
	}
	results := make([]AreaResult, len(list))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, area := range list {
		i, area := i, area
		g.Go(func() error {
			agg, err := e.RunArea(area)
			results[i] = AreaResult{Area: area, Aggregation: agg, Err: err}
			if err != nil {
				zap.L().Error("query: area failed",
					zap.String("area", area.Name),
					zap.Error(err),
				)
			}
			return nil // per-area failures are reported, not propagated
		})
	}
	_ = g.Wait()
	return results
}
