package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openurban/facility-map/internal/config"
	"github.com/openurban/facility-map/internal/coverage"
	"github.com/openurban/facility-map/internal/facility"
	"github.com/openurban/facility-map/internal/geodist"
)

// loadStore reads the configured dataset into an immutable store.
func loadStore(ctx context.Context, cfg *config.Config) (*facility.Store, error) {
	var (
		records []facility.Facility
		err     error
	)

	switch cfg.Data.Format {
	case "geojson", "":
		records, err = facility.Load(ctx, nil, cfg.Data.Source)
	case "shapefile":
		records, err = facility.LoadShapefile(cfg.Data.Source)
	default:
		return nil, eris.Errorf("unknown data format %q", cfg.Data.Format)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("dataset loaded",
		zap.String("source", cfg.Data.Source),
		zap.Int("records", len(records)),
	)

	return facility.NewStore(records), nil
}

// coverageOptions maps configuration onto sampler options.
func coverageOptions(cfg *config.Config) (coverage.Options, error) {
	dist, err := geodist.ByName(cfg.Coverage.Distance)
	if err != nil {
		return coverage.Options{}, err
	}
	if (cfg.Coverage.Distance == "planar" || cfg.Coverage.Distance == "") &&
		cfg.Coverage.MetersPerDegreeLng > 0 &&
		cfg.Coverage.MetersPerDegreeLng != geodist.DefaultMetersPerDegreeLng {
		dist = geodist.Planar(cfg.Coverage.MetersPerDegreeLng)
	}

	return coverage.Options{
		Bounds: coverage.Bounds{
			North: cfg.Coverage.Bounds.North,
			South: cfg.Coverage.Bounds.South,
			East:  cfg.Coverage.Bounds.East,
			West:  cfg.Coverage.Bounds.West,
		},
		GridSize:          cfg.Coverage.GridSize,
		MaxDistanceMeters: cfg.Coverage.MaxDistanceM,
		Gamma:             cfg.Coverage.Gamma,
		Distance:          dist,
		Index:             coverage.IndexKind(cfg.Coverage.Index),
		Workers:           cfg.Coverage.Workers,
	}, nil
}
