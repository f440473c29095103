package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/district-analytics/parcelscope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "parcelscope",
	Short: "Aggregate property-tax value inside geographic boundaries",
	Long:  "Joins the city parcel table to address points, indexes the result in memory, and answers point-in-polygon value aggregations for named areas or drawn boundaries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
