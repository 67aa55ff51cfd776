package coverage

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openurban/facility-map/internal/facility"
	"github.com/openurban/facility-map/internal/geodist"
)

var testBounds = Bounds{North: 40.95, South: 40.49, East: -73.65, West: -74.28}

func testOptions() Options {
	return Options{
		Bounds:            testBounds,
		GridSize:          10,
		MaxDistanceMeters: 5000,
		Gamma:             0.6,
	}
}

func located(lat, lng float64) facility.Facility {
	return facility.Facility{Lat: lat, Lng: lng, Status: facility.StatusOperational}
}

func TestComputeBounded(t *testing.T) {
	records := []facility.Facility{
		located(40.75, -73.98),
		located(40.65, -74.10),
	}

	grid, err := Compute(context.Background(), records, testOptions())
	require.NoError(t, err)
	require.Len(t, grid.Cells, 100)

	for _, c := range grid.Cells {
		assert.GreaterOrEqual(t, c.Intensity, 0.0)
		assert.LessOrEqual(t, c.Intensity, 1.0)
		assert.False(t, math.IsNaN(c.Intensity))
	}
}

func TestComputeSaturation(t *testing.T) {
	// Single facility far outside the bounds: every cell is beyond the
	// cutoff and saturates at 1.
	records := []facility.Facility{located(45.0, -70.0)}

	grid, err := Compute(context.Background(), records, testOptions())
	require.NoError(t, err)

	for _, c := range grid.Cells {
		require.GreaterOrEqual(t, c.DistanceM, 5000.0)
		assert.Equal(t, 1.0, c.Intensity)
	}
}

func TestComputeIntensityMonotoneInDistance(t *testing.T) {
	records := []facility.Facility{located(40.72, -74.00)}

	grid, err := Compute(context.Background(), records, testOptions())
	require.NoError(t, err)

	cells := append([]Cell(nil), grid.Cells...)
	sort.Slice(cells, func(i, j int) bool { return cells[i].DistanceM < cells[j].DistanceM })
	for i := 1; i < len(cells); i++ {
		assert.GreaterOrEqual(t, cells[i].Intensity, cells[i-1].Intensity)
	}
}

func TestComputeIgnoresInvalidCoordinates(t *testing.T) {
	valid := located(40.75, -73.98)
	invalid := facility.Facility{Lat: math.NaN(), Lng: math.NaN()}

	withInvalid, err := Compute(context.Background(), []facility.Facility{valid, invalid}, testOptions())
	require.NoError(t, err)

	withoutInvalid, err := Compute(context.Background(), []facility.Facility{valid}, testOptions())
	require.NoError(t, err)

	// The invalid record must not poison any minimum.
	for i := range withInvalid.Cells {
		require.False(t, math.IsNaN(withInvalid.Cells[i].DistanceM))
		assert.Equal(t, withoutInvalid.Cells[i], withInvalid.Cells[i])
	}
}

func TestComputeNoValidRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []facility.Facility
	}{
		{name: "empty set"},
		{
			name:    "only invalid coordinates",
			records: []facility.Facility{{Lat: math.NaN(), Lng: math.NaN()}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Compute(context.Background(), tt.records, testOptions())
			require.NoError(t, err)
			for _, c := range grid.Cells {
				assert.Equal(t, 1.0, c.Intensity)
			}
		})
	}
}

func TestComputeCornerGradient(t *testing.T) {
	// 2x2 grid over a 2°x2° box with one facility exactly at the
	// southwest corner: the northeast-most cell must report a strictly
	// larger raw distance than the southwest-most cell.
	opts := Options{
		Bounds:            Bounds{North: 42, South: 40, East: -72, West: -74},
		GridSize:          2,
		MaxDistanceMeters: 5000,
		Gamma:             0.6,
	}
	records := []facility.Facility{located(40, -74)}

	grid, err := Compute(context.Background(), records, opts)
	require.NoError(t, err)
	require.Len(t, grid.Cells, 4)

	sw := grid.Cells[0]
	ne := grid.Cells[3]
	assert.Zero(t, sw.DistanceM)
	assert.Greater(t, ne.DistanceM, sw.DistanceM)
}

func TestComputeEnumerationOrder(t *testing.T) {
	opts := testOptions()
	opts.GridSize = 3

	grid, err := Compute(context.Background(), []facility.Facility{located(40.7, -74.0)}, opts)
	require.NoError(t, err)
	require.Len(t, grid.Cells, 9)

	latStep := (opts.Bounds.North - opts.Bounds.South) / 3
	lngStep := (opts.Bounds.East - opts.Bounds.West) / 3

	// i-major, j-minor: cell k sits at (i=k/3, j=k%3).
	for k, c := range grid.Cells {
		i, j := k/3, k%3
		assert.InDelta(t, opts.Bounds.South+float64(i)*latStep, c.Lat, 1e-9)
		assert.InDelta(t, opts.Bounds.West+float64(j)*lngStep, c.Lng, 1e-9)
	}
}

func TestComputeGammaCompressesLowValues(t *testing.T) {
	// gamma < 1 lifts mid-range distances above their linear value.
	assert.Greater(t, intensity(2500, 5000, 0.6), 0.5)
	assert.Equal(t, 1.0, intensity(5000, 5000, 0.6))
	assert.Equal(t, 1.0, intensity(9000, 5000, 0.6))
	assert.Zero(t, intensity(0, 5000, 0.6))
	assert.Equal(t, 1.0, intensity(math.Inf(1), 5000, 0.6))
}

func TestComputeContractViolations(t *testing.T) {
	records := []facility.Facility{located(40.7, -74.0)}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "negative grid size", mutate: func(o *Options) { o.GridSize = -5 }},
		{name: "zero-area bounds", mutate: func(o *Options) { o.Bounds.North = o.Bounds.South }},
		{name: "inverted bounds", mutate: func(o *Options) { o.Bounds.East, o.Bounds.West = o.Bounds.West, o.Bounds.East }},
		{name: "non-finite bounds", mutate: func(o *Options) { o.Bounds.North = math.NaN() }},
		{name: "negative max distance", mutate: func(o *Options) { o.MaxDistanceMeters = -1 }},
		{name: "negative gamma", mutate: func(o *Options) { o.Gamma = -0.6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			_, err := Compute(context.Background(), records, opts)
			assert.Error(t, err)
		})
	}
}

func TestComputeDefaults(t *testing.T) {
	opts := Options{Bounds: testBounds, GridSize: 4}
	grid, err := Compute(context.Background(), []facility.Facility{located(40.7, -74.0)}, opts)
	require.NoError(t, err)
	assert.Len(t, grid.Cells, 16)
	assert.Equal(t, 4, grid.Size)
}

func TestComputeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := testOptions()
	opts.GridSize = 50
	opts.Workers = 1

	_, err := Compute(ctx, make([]facility.Facility, 0), opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeHaversineMetric(t *testing.T) {
	opts := testOptions()
	opts.Distance = geodist.Haversine

	grid, err := Compute(context.Background(), []facility.Facility{located(40.72, -74.00)}, opts)
	require.NoError(t, err)
	for _, c := range grid.Cells {
		assert.False(t, math.IsNaN(c.Intensity))
		assert.LessOrEqual(t, c.Intensity, 1.0)
	}
}

func TestGridFeatureCollection(t *testing.T) {
	grid, err := Compute(context.Background(), []facility.Facility{located(40.72, -74.00)}, testOptions())
	require.NoError(t, err)

	fc := grid.FeatureCollection()
	require.Len(t, fc.Features, len(grid.Cells))
	for i, feat := range fc.Features {
		assert.InDelta(t, grid.Cells[i].Intensity, feat.Properties["intensity"].(float64), 1e-12)
	}
}
