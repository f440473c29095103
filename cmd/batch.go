package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/areas"
	"github.com/district-analytics/parcelscope/internal/export"
	"github.com/district-analytics/parcelscope/internal/query"
)

var (
	batchParcelsCSV  string
	batchCoordinates string
	batchAreasFile   string
	batchOutDir      string
	batchFormat      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate the configured named areas and export parcel details",
	RunE: func(cmd *cobra.Command, _ []string) error {
		parcelsPath := orDefault(batchParcelsCSV, cfg.Data.ParcelsCSV)
		coordsPath := orDefault(batchCoordinates, cfg.Data.CoordinatesPath)
		outDir := orDefault(batchOutDir, cfg.Batch.ExportDir)

		format, err := export.ParseFormat(orDefault(batchFormat, cfg.Batch.ExportFormat))
		if err != nil {
			return err
		}
		areaList, err := areas.Load(orDefault(batchAreasFile, cfg.Areas.File))
		if err != nil {
			return err
		}

		ds, merged, err := loadDataset(parcelsPath, coordsPath)
		if err != nil {
			return err
		}
		engine := query.NewEngine(ds, cfg.Batch.BufferSegments)

		results := engine.RunBatch(cmd.Context(), areaList, cfg.Batch.Parallelism)

		var detail []export.DetailRow
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", r.Area.Name, r.Err)
				continue
			}
			printAreaSummary(cmd, r)
			detail = append(detail, export.Rows(r.Area.Name, r.Aggregation.Parcels)...)
		}

		detailPath := filepath.Join(outDir, "parcels_by_area."+format.Ext())
		if err := writeFile(detailPath, func(f *os.File) error {
			return export.WriteDetail(f, format, detail, true)
		}); err != nil {
			return err
		}
		unmatchedPath := filepath.Join(outDir, "unmatched_parcels.csv")
		if err := writeFile(unmatchedPath, func(f *os.File) error {
			return export.WriteUnmatched(f, merged.Unmatched)
		}); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("areas", len(results)),
			zap.Int("failed", failed),
			zap.String("detail", detailPath),
			zap.String("unmatched", unmatchedPath),
		)
		if failed > 0 {
			return eris.Errorf("batch: %d of %d areas failed", failed, len(results))
		}
		return nil
	},
}

func printAreaSummary(cmd *cobra.Command, r query.AreaResult) {
	out := cmd.OutOrStdout()
	usd.Fprintf(out, "%s: %d parcels, total $%.2f\n",
		r.Area.Name, r.Aggregation.Count, r.Aggregation.Total)
	for _, g := range r.Aggregation.Groups {
		usd.Fprintf(out, "  %-32s %6d  sum $%.2f  mean $%.2f\n",
			g.Label, g.Count, g.Sum, g.Mean)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "batch: close %s", path)
}

func orDefault(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func init() {
	batchCmd.Flags().StringVar(&batchParcelsCSV, "parcels", "", "parcel attribute CSV (default from config)")
	batchCmd.Flags().StringVar(&batchCoordinates, "coordinates", "", "address point CSV or shapefile (default from config)")
	batchCmd.Flags().StringVar(&batchAreasFile, "areas", "", "named areas YAML (default: built-in areas)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "export directory (default from config)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "export format: csv or xlsx (default from config)")
	rootCmd.AddCommand(batchCmd)
}
