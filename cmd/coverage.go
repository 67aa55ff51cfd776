package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openurban/facility-map/internal/coverage"
)

var coverageOut string

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Compute the coverage grid and write it as GeoJSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		opts, err := coverageOptions(cfg)
		if err != nil {
			return err
		}

		grid, err := coverage.Compute(cmd.Context(), store.Records(), opts)
		if err != nil {
			return err
		}

		out := os.Stdout
		if coverageOut != "" {
			f, err := os.Create(coverageOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", coverageOut)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		if err := json.NewEncoder(out).Encode(grid.FeatureCollection()); err != nil {
			return eris.Wrap(err, "encode coverage grid")
		}

		zap.L().Info("coverage grid written",
			zap.Int("cells", len(grid.Cells)),
			zap.String("output", coverageOut),
		)
		return nil
	},
}

func init() {
	coverageCmd.Flags().StringVarP(&coverageOut, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(coverageCmd)
}
