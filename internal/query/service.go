package query

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/export"
	"github.com/district-analytics/parcelscope/internal/geospatial"
)

// ErrUnknownExport marks an export handle that does not exist or has been
// evicted.
var ErrUnknownExport = errors.New("unknown export id")

// Request is one interactive boundary query: a drawn polygon ring of
// [lon, lat] vertices in WGS84, closed or open.
type Request struct {
	Ring            [][2]float64 `json:"ring"`
	GroupByCategory bool         `json:"group_by_category"`
}

// Response summarizes a successful query. ExportID references the stored
// parcel detail for a follow-up export request.
type Response struct {
	Message         string                  `json:"message"`
	ParcelCount     int                     `json:"parcel_count"`
	TotalValue      float64                 `json:"total_value"`
	Groups          []geospatial.GroupStats `json:"groups,omitempty"`
	ExportID        string                  `json:"export_id"`
	ExportAvailable bool                    `json:"export_available"`
}

// Service answers interactive queries and keeps recent results addressable
// by handle. Handles replace a single shared "last result" slot: a failed
// query can never clobber a result a caller is about to download. The
// store is bounded; the oldest result is evicted first.
type Service struct {
	engine *Engine

	mu      sync.Mutex
	results map[uuid.UUID][]export.DetailRow
	order   []uuid.UUID
	max     int
}

// NewService creates a Service holding at most maxHeld query results.
func NewService(engine *Engine, maxHeld int) *Service {
	if maxHeld <= 0 {
		maxHeld = 16
	}
	return &Service{
		engine:  engine,
		results: make(map[uuid.UUID][]export.DetailRow, maxHeld),
		max:     maxHeld,
	}
}

// Query validates and evaluates one drawn polygon. An invalid polygon
// returns an error and leaves every stored result untouched.
func (s *Service) Query(req Request) (Response, error) {
	verts := make([]geospatial.Geographic, 0, len(req.Ring))
	for _, v := range req.Ring {
		verts = append(verts, geospatial.Geographic{Lon: v[0], Lat: v[1]})
	}
	boundary, err := geospatial.NewBoundary(verts)
	if err != nil {
		return Response{}, eris.Wrap(err, "query: drawn boundary")
	}

	parcels := s.engine.Dataset().QueryWithin(boundary)
	agg := geospatial.Aggregate(parcels, req.GroupByCategory)

	id := uuid.New()
	s.store(id, export.Rows("", agg.Parcels))

	zap.L().Info("query: boundary processed",
		zap.Int("parcels", agg.Count),
		zap.Float64("total_value", agg.Total),
		zap.String("export_id", id.String()),
	)
	return Response{
		Message:         fmt.Sprintf("Boundary processed: %d parcels matched", agg.Count),
		ParcelCount:     agg.Count,
		TotalValue:      agg.Total,
		Groups:          agg.Groups,
		ExportID:        id.String(),
		ExportAvailable: agg.Count > 0,
	}, nil
}

// Export returns the stored detail rows for a result handle.
func (s *Service) Export(id string) ([]export.DetailRow, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, eris.Wrapf(ErrUnknownExport, "query: malformed export id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.results[key]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownExport, "query: export id %s", id)
	}
	return rows, nil
}

func (s *Service) store(id uuid.UUID, rows []export.DetailRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) >= s.max {
		evict := s.order[0]
		s.order = s.order[1:]
		delete(s.results, evict)
	}
	s.results[id] = rows
	s.order = append(s.order, id)
}
