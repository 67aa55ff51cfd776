// Package coverage estimates geographic coverage gaps by sampling a bounding
// region on a regular grid and scoring each cell by its distance to the
// nearest facility.
package coverage

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openurban/facility-map/internal/facility"
	"github.com/openurban/facility-map/internal/geodist"
)

// Reference tuning for the target metro.
const (
	DefaultGridSize    = 100
	DefaultMaxDistance = 5000.0
	DefaultGamma       = 0.6
)

// Bounds is the north/south/east/west extent of the sampled region.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Validate rejects inverted or zero-area bounds.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.North, b.South, b.East, b.West} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return eris.New("coverage: bounds must be finite")
		}
	}
	if b.North <= b.South {
		return eris.Errorf("coverage: north (%v) must exceed south (%v)", b.North, b.South)
	}
	if b.East <= b.West {
		return eris.Errorf("coverage: east (%v) must exceed west (%v)", b.East, b.West)
	}
	return nil
}

// Cell is one grid sample. DistanceM is the raw nearest-facility distance;
// Intensity is its normalized, gamma-curved value in [0,1], where higher
// means farther from service.
type Cell struct {
	Lng       float64 `json:"lng"`
	Lat       float64 `json:"lat"`
	DistanceM float64 `json:"distance_m"`
	Intensity float64 `json:"intensity"`
}

// Grid is a computed coverage dataset. Cells are enumerated i-major
// (latitude row), j-minor (longitude column), south-west first.
type Grid struct {
	Size   int    `json:"size"`
	Bounds Bounds `json:"bounds"`
	Cells  []Cell `json:"cells"`
}

// Options configures a coverage computation. The zero value of a field
// selects its default.
type Options struct {
	Bounds   Bounds
	GridSize int

	// MaxDistanceMeters is the normalization cutoff: cells at or beyond it
	// saturate at intensity 1.
	MaxDistanceMeters float64

	// Gamma is the contrast exponent applied to the normalized distance.
	Gamma float64

	// Distance is the metric for the nearest-neighbor scan. Defaults to
	// geodist.FastPlanar.
	Distance geodist.Func

	// Index selects the nearest-neighbor strategy, IndexLinear by default.
	Index IndexKind

	// Workers bounds the row fan-out; 0 means GOMAXPROCS.
	Workers int
}

func (o Options) withDefaults() Options {
	if o.GridSize == 0 {
		o.GridSize = DefaultGridSize
	}
	if o.MaxDistanceMeters == 0 {
		o.MaxDistanceMeters = DefaultMaxDistance
	}
	if o.Gamma == 0 {
		o.Gamma = DefaultGamma
	}
	if o.Distance == nil {
		o.Distance = geodist.FastPlanar
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o Options) validate() error {
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	if o.GridSize < 1 {
		return eris.Errorf("coverage: grid size must be positive, got %d", o.GridSize)
	}
	if o.MaxDistanceMeters <= 0 || math.IsNaN(o.MaxDistanceMeters) || math.IsInf(o.MaxDistanceMeters, 0) {
		return eris.New("coverage: max distance must be positive and finite")
	}
	if o.Gamma <= 0 || math.IsNaN(o.Gamma) || math.IsInf(o.Gamma, 0) {
		return eris.New("coverage: gamma must be positive and finite")
	}
	return nil
}

// Compute samples the bounds on a GridSize×GridSize lattice and scores every
// cell by distance to the nearest valid-coordinate record. Records without
// finite coordinates are excluded from the scan; with zero valid records
// every cell saturates at intensity 1.
//
// Rows are fanned out across workers and the context is honored between
// rows, so a cancelled toggle abandons the computation instead of blocking.
func Compute(ctx context.Context, records []facility.Facility, opts Options) (*Grid, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	neighbors := buildIndex(opts.Index, validPoints(records), opts.Distance)

	n := opts.GridSize
	latStep := (opts.Bounds.North - opts.Bounds.South) / float64(n)
	lngStep := (opts.Bounds.East - opts.Bounds.West) / float64(n)

	grid := &Grid{
		Size:   n,
		Bounds: opts.Bounds,
		Cells:  make([]Cell, n*n),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			lat := opts.Bounds.South + float64(i)*latStep
			row := grid.Cells[i*n : (i+1)*n]
			for j := 0; j < n; j++ {
				lng := opts.Bounds.West + float64(j)*lngStep
				d := neighbors.Nearest(lat, lng)
				row[j] = Cell{
					Lng:       lng,
					Lat:       lat,
					DistanceM: d,
					Intensity: intensity(d, opts.MaxDistanceMeters, opts.Gamma),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("coverage: grid computed",
		zap.Int("grid_size", n),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return grid, nil
}

// intensity clamps the normalized distance to [0,1] and applies the contrast
// curve. An infinite distance (empty dataset) maps to maximal intensity.
func intensity(distanceM, maxDistanceM, gamma float64) float64 {
	normalized := distanceM / maxDistanceM
	if normalized >= 1 || math.IsInf(distanceM, 1) {
		return 1
	}
	if normalized <= 0 {
		return 0
	}
	return math.Pow(normalized, gamma)
}

func validPoints(records []facility.Facility) []point {
	pts := make([]point, 0, len(records))
	for _, f := range records {
		if f.HasLocation() {
			pts = append(pts, point{lat: f.Lat, lng: f.Lng})
		}
	}
	return pts
}
