package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/district-analytics/parcelscope/internal/geospatial"
	"github.com/district-analytics/parcelscope/internal/loader"
	"github.com/district-analytics/parcelscope/internal/resolve"
)

// usd renders assessed values with thousands separators for console output.
var usd = message.NewPrinter(language.AmericanEnglish)

// loadDataset runs the startup pipeline shared by every subcommand: load
// both source tables, merge, and build the spatial dataset. Any error here
// is process-fatal.
func loadDataset(parcelsPath, coordinatesPath string) (*geospatial.Dataset, resolve.Result, error) {
	start := time.Now()

	parcels, err := loader.LoadParcels(parcelsPath)
	if err != nil {
		return nil, resolve.Result{}, eris.Wrap(err, "load parcels")
	}
	coords, err := loader.LoadCoordinates(coordinatesPath)
	if err != nil {
		return nil, resolve.Result{}, eris.Wrap(err, "load coordinates")
	}

	merged := resolve.Merge(parcels, coords)

	ds, err := geospatial.NewDataset(merged.Geolocated)
	if err != nil {
		return nil, resolve.Result{}, eris.Wrap(err, "build dataset")
	}

	zap.L().Info("dataset ready",
		zap.Int("geolocated", merged.Stats.Geolocated),
		zap.Int("unmatched", merged.Stats.Unmatched),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, merged, nil
}
