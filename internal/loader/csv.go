// Package loader reads the two tabular sources into memory. A missing file
// or missing required column is the one failure class that halts startup;
// bad individual rows are data-quality signals handled by exclusion or
// zero-substitution.
package loader

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/model"
)

// ErrSourceData marks a missing or structurally unusable source table.
var ErrSourceData = errors.New("source data unavailable or malformed")

// Parcel table column names, matching the city's open-data exports.
// Address and assessed value have a fallback column each because the two
// published views disagree on naming.
const (
	colID         = "SSL"
	colAddress    = "PREMISEADD"
	colAddressAlt = "FULLADDRESS"
	colUseCode    = "USECODE"
	colValue      = "NEWTOTAL"
	colValueAlt   = "ASSESSMENT"
	colLatitude   = "LATITUDE"
	colLongitude  = "LONGITUDE"
)

// LoadParcels reads the parcel attribute CSV. Rows with an empty identifier
// are skipped; a non-numeric assessed value is substituted with 0 and
// counted.
func LoadParcels(path string) ([]model.ParcelRecord, error) {
	records, colIdx, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if _, ok := colIdx[colID]; !ok {
		return nil, eris.Wrapf(ErrSourceData, "loader: %s missing required column %s", path, colID)
	}
	if _, ok := colIdx[colUseCode]; !ok {
		return nil, eris.Wrapf(ErrSourceData, "loader: %s missing required column %s", path, colUseCode)
	}

	var parcels []model.ParcelRecord
	var badValues int
	for _, row := range records {
		id := getCol(row, colIdx, colID)
		if id == "" {
			continue
		}
		value, ok := parseValue(firstCol(row, colIdx, colValue, colValueAlt))
		if !ok {
			badValues++
		}
		parcels = append(parcels, model.ParcelRecord{
			ID:            id,
			Address:       firstCol(row, colIdx, colAddress, colAddressAlt),
			LandUseCode:   getCol(row, colIdx, colUseCode),
			AssessedValue: value,
		})
	}
	if len(parcels) == 0 {
		return nil, eris.Wrapf(ErrSourceData, "loader: %s has no usable parcel rows", path)
	}

	zap.L().Info("loader: parcels loaded",
		zap.String("path", path),
		zap.Int("rows", len(parcels)),
		zap.Int("missing_values", badValues),
	)
	return parcels, nil
}

// LoadCoordinates reads the address-point source. A .shp path is read as a
// point shapefile, anything else as CSV. Rows with a non-numeric latitude
// or longitude are dropped here; the resolver then reports their parcels
// as unmatched.
func LoadCoordinates(path string) ([]model.GeoCoordinate, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return loadCoordinateShapefile(path)
	}
	return loadCoordinateCSV(path)
}

func loadCoordinateCSV(path string) ([]model.GeoCoordinate, error) {
	records, colIdx, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{colID, colLatitude, colLongitude} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Wrapf(ErrSourceData, "loader: %s missing required column %s", path, col)
		}
	}

	var coords []model.GeoCoordinate
	var dropped int
	for _, row := range records {
		id := getCol(row, colIdx, colID)
		if id == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(getCol(row, colIdx, colLatitude), 64)
		lon, lonErr := strconv.ParseFloat(getCol(row, colIdx, colLongitude), 64)
		if latErr != nil || lonErr != nil {
			dropped++
			continue
		}
		coords = append(coords, model.GeoCoordinate{ID: id, Latitude: lat, Longitude: lon})
	}

	zap.L().Info("loader: coordinates loaded",
		zap.String("path", path),
		zap.Int("rows", len(coords)),
		zap.Int("dropped_non_numeric", dropped),
	)
	return coords, nil
}

// readCSV loads a whole CSV and returns its data rows plus a header index.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(ErrSourceData, "loader: open %s: %v", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrapf(ErrSourceData, "loader: read %s: %v", path, err)
	}
	if len(records) < 2 {
		return nil, nil, eris.Wrapf(ErrSourceData, "loader: %s has no data rows", path)
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		colIdx[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	return records[1:], colIdx, nil
}

// getCol safely retrieves a column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// firstCol returns the first non-empty value among the named columns.
func firstCol(row []string, colIdx map[string]int, cols ...string) string {
	for _, col := range cols {
		if v := getCol(row, colIdx, col); v != "" {
			return v
		}
	}
	return ""
}

// parseValue coerces an assessed value to a non-negative float. Missing or
// non-numeric values become 0 with ok=false so callers can count them.
func parseValue(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
