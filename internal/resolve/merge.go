// Package resolve joins the parcel attribute table to the address-point
// table and partitions the result into geolocated and unmatched parcels.
package resolve

import (
	"strings"

	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/geospatial"
	"github.com/district-analytics/parcelscope/internal/model"
)

// Stats counts the data-quality signals observed during a merge. They are
// surfaced for reporting only and never affect control flow.
type Stats struct {
	InputParcels         int `json:"input_parcels"`
	InputCoordinates     int `json:"input_coordinates"`
	DuplicateParcels     int `json:"duplicate_parcels"`
	DuplicateCoordinates int `json:"duplicate_coordinates"`
	Geolocated           int `json:"geolocated"`
	Unmatched            int `json:"unmatched"`
}

// Result holds the two disjoint output sets of a merge. Every distinct
// parcel identifier lands in exactly one of them.
type Result struct {
	Geolocated []model.GeolocatedParcel
	Unmatched  []model.UnmatchedParcel
	Stats      Stats
}

// Merge joins parcels to coordinates by exact identifier equality
// (whitespace-trimmed). Duplicate identifiers in either source follow a
// first-wins policy and are counted, not fatal. Parcel rows without an
// identifier go to the unmatched set. A coordinate that cannot be projected
// disqualifies its parcel from geolocation. Merge never fails.
func Merge(parcels []model.ParcelRecord, coords []model.GeoCoordinate) Result {
	res := Result{Stats: Stats{
		InputParcels:     len(parcels),
		InputCoordinates: len(coords),
	}}

	coordByID := make(map[string]model.GeoCoordinate, len(coords))
	for _, c := range coords {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		if _, dup := coordByID[id]; dup {
			res.Stats.DuplicateCoordinates++
			continue
		}
		coordByID[id] = c
	}

	seen := make(map[string]bool, len(parcels))
	for _, p := range parcels {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			res.Unmatched = append(res.Unmatched, model.UnmatchedParcel{
				ParcelRecord: p,
				Reason:       "missing identifier",
			})
			continue
		}
		if seen[p.ID] {
			res.Stats.DuplicateParcels++
			continue
		}
		seen[p.ID] = true

		c, ok := coordByID[p.ID]
		if !ok {
			res.Unmatched = append(res.Unmatched, model.UnmatchedParcel{
				ParcelRecord: p,
				Reason:       "no coordinate for identifier",
			})
			continue
		}
		if _, err := geospatial.Project(geospatial.Geographic{Lon: c.Longitude, Lat: c.Latitude}); err != nil {
			res.Unmatched = append(res.Unmatched, model.UnmatchedParcel{
				ParcelRecord: p,
				Reason:       "coordinate out of range",
			})
			continue
		}
		res.Geolocated = append(res.Geolocated, model.GeolocatedParcel{
			ParcelRecord: p,
			Latitude:     c.Latitude,
			Longitude:    c.Longitude,
		})
	}

	res.Stats.Geolocated = len(res.Geolocated)
	res.Stats.Unmatched = len(res.Unmatched)

	log := zap.L().With(zap.String("component", "resolve"))
	log.Info("merge complete",
		zap.Int("geolocated", res.Stats.Geolocated),
		zap.Int("unmatched", res.Stats.Unmatched),
	)
	if res.Stats.DuplicateParcels > 0 || res.Stats.DuplicateCoordinates > 0 {
		log.Warn("duplicate identifiers dropped (first occurrence kept)",
			zap.Int("parcel_rows", res.Stats.DuplicateParcels),
			zap.Int("coordinate_rows", res.Stats.DuplicateCoordinates),
		)
	}
	return res
}
