package geospatial

import (
	"sort"

	"github.com/district-analytics/parcelscope/internal/model"
)

// GroupStats holds the per-land-use-category breakdown of a parcel subset.
// Mean is always Sum/Count; zero-count groups are never emitted.
type GroupStats struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
}

// AggregationResult is the outcome of aggregating one parcel subset.
type AggregationResult struct {
	Count   int          `json:"count"`
	Total   float64      `json:"total"`
	Groups  []GroupStats `json:"groups,omitempty"`
	Parcels []model.GeolocatedParcel
}

// Aggregate computes count and total assessed value over parcels, with an
// optional per-category breakdown. It is a pure function: the result does
// not depend on input order, and the parcel list and groups come back in a
// deterministic order (by identifier and category respectively).
func Aggregate(parcels []model.GeolocatedParcel, byCategory bool) AggregationResult {
	res := AggregationResult{
		Count:   len(parcels),
		Parcels: make([]model.GeolocatedParcel, len(parcels)),
	}
	copy(res.Parcels, parcels)
	sort.Slice(res.Parcels, func(i, j int) bool { return res.Parcels[i].ID < res.Parcels[j].ID })

	for _, p := range res.Parcels {
		res.Total += p.AssessedValue
	}

	if !byCategory {
		return res
	}

	byCode := make(map[string]*GroupStats)
	for _, p := range res.Parcels {
		g, ok := byCode[p.LandUseCode]
		if !ok {
			g = &GroupStats{
				Category: p.LandUseCode,
				Label:    model.DescribeUseCode(p.LandUseCode),
			}
			byCode[p.LandUseCode] = g
		}
		g.Count++
		g.Sum += p.AssessedValue
	}

	res.Groups = make([]GroupStats, 0, len(byCode))
	for _, g := range byCode {
		g.Mean = g.Sum / float64(g.Count)
		res.Groups = append(res.Groups, *g)
	}
	sort.Slice(res.Groups, func(i, j int) bool { return res.Groups[i].Category < res.Groups[j].Category })
	return res
}
