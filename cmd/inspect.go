package main

import (
	"github.com/spf13/cobra"
)

var (
	inspectParcelsCSV  string
	inspectCoordinates string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the dataset and print data-quality statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, merged, err := loadDataset(
			orDefault(inspectParcelsCSV, cfg.Data.ParcelsCSV),
			orDefault(inspectCoordinates, cfg.Data.CoordinatesPath),
		)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		s := merged.Stats
		usd.Fprintf(out, "parcel rows:           %d\n", s.InputParcels)
		usd.Fprintf(out, "coordinate rows:       %d\n", s.InputCoordinates)
		usd.Fprintf(out, "duplicate parcels:     %d\n", s.DuplicateParcels)
		usd.Fprintf(out, "duplicate coordinates: %d\n", s.DuplicateCoordinates)
		usd.Fprintf(out, "geolocated:            %d\n", s.Geolocated)
		usd.Fprintf(out, "unmatched:             %d\n", s.Unmatched)
		if ds.Len() > 0 {
			b := ds.Bounds()
			usd.Fprintf(out, "bounds (lon/lat):      [%.5f, %.5f] .. [%.5f, %.5f]\n",
				b.Min(0), b.Min(1), b.Max(0), b.Max(1))
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectParcelsCSV, "parcels", "", "parcel attribute CSV (default from config)")
	inspectCmd.Flags().StringVar(&inspectCoordinates, "coordinates", "", "address point CSV or shapefile (default from config)")
	rootCmd.AddCommand(inspectCmd)
}
