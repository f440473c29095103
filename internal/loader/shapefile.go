package loader

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/model"
)

// loadCoordinateShapefile reads address points from a Point shapefile. The
// identifier comes from the SSL attribute; the coordinate from the shape
// itself (shapefile points are already lon/lat in the published data).
func loadCoordinateShapefile(path string) ([]model.GeoCoordinate, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(ErrSourceData, "loader: open shapefile %s: %v", path, err)
	}
	defer func() { _ = reader.Close() }()

	// Field name -> index, dBase names are fixed-width and NUL padded.
	idIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(strings.TrimSpace(name), colID) {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return nil, eris.Wrapf(ErrSourceData, "loader: shapefile %s missing %s attribute", path, colID)
	}

	var coords []model.GeoCoordinate
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		if !ok || pt == nil {
			skipped++
			continue
		}
		id := strings.TrimSpace(strings.TrimRight(reader.Attribute(idIdx), "\x00"))
		if id == "" {
			skipped++
			continue
		}
		coords = append(coords, model.GeoCoordinate{ID: id, Latitude: pt.Y, Longitude: pt.X})
	}

	zap.L().Info("loader: coordinates loaded from shapefile",
		zap.String("path", path),
		zap.Int("rows", len(coords)),
		zap.Int("skipped", skipped),
	)
	return coords, nil
}
