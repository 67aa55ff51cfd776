package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openurban/facility-map/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "facility-map",
	Short: "Facility map filtering and coverage-gap estimation",
	Long:  "Loads a point-located facility dataset, filters it by text search and categorical facets, and estimates geographic coverage gaps on a regular grid for heat-layer display.",
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
