package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/openurban/facility-map/internal/facility"
)

var statsQuery facility.Query

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary counts for the (optionally filtered) dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		stats := facility.Summarize(store.Filter(statsQuery))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return eris.Wrap(err, "encode stats")
		}
		return nil
	},
}

func init() {
	statsQuery = facility.NewQuery()
	statsCmd.Flags().StringVar(&statsQuery.Search, "search", "", "substring search over name, operator and location type")
	statsCmd.Flags().StringVar(&statsQuery.Status, "status", facility.FilterAll, "exact status facet")
	statsCmd.Flags().StringVar(&statsQuery.Accessibility, "accessibility", facility.FilterAll, "exact accessibility facet")
	statsCmd.Flags().StringVar(&statsQuery.LocationType, "location-type", facility.FilterAll, "exact location type facet")
	rootCmd.AddCommand(statsCmd)
}
