package coverage

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openurban/facility-map/internal/geodist"
)

func TestBucketIndexMatchesLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	pts := make([]point, 0, 500)
	for i := 0; i < 500; i++ {
		pts = append(pts, point{
			lat: 40.49 + rng.Float64()*0.46,
			lng: -74.28 + rng.Float64()*0.63,
		})
	}

	linear := buildIndex(IndexLinear, pts, geodist.FastPlanar)
	bucket := buildIndex(IndexBucket, pts, geodist.FastPlanar)

	for i := 0; i < 200; i++ {
		lat := 40.40 + rng.Float64()*0.60
		lng := -74.40 + rng.Float64()*0.90
		want := linear.Nearest(lat, lng)
		got := bucket.Nearest(lat, lng)
		assert.InDelta(t, want, got, 1e-9, "query (%f, %f)", lat, lng)
	}
}

func TestBucketIndexSparse(t *testing.T) {
	// A single point far from the query exercises the ring expansion.
	pts := []point{{lat: 40.9, lng: -73.7}}
	bucket := buildIndex(IndexBucket, pts, geodist.FastPlanar)

	want := geodist.FastPlanar(40.5, -74.25, 40.9, -73.7)
	assert.InDelta(t, want, bucket.Nearest(40.5, -74.25), 1e-9)
}

func TestEmptyIndexes(t *testing.T) {
	for _, kind := range []IndexKind{IndexLinear, IndexBucket} {
		ix := buildIndex(kind, nil, geodist.FastPlanar)
		d := ix.Nearest(40.7, -74.0)
		require.True(t, math.IsInf(d, 1), "kind %s", kind)
	}
}

func TestRingKeys(t *testing.T) {
	center := bucketKey{i: 0, j: 0}

	assert.Equal(t, []bucketKey{center}, ringKeys(center, 0))

	ring1 := ringKeys(center, 1)
	assert.Len(t, ring1, 8)
	seen := make(map[bucketKey]bool)
	for _, k := range ring1 {
		assert.False(t, seen[k], "duplicate key %v", k)
		seen[k] = true
		assert.Equal(t, 1, max(abs(k.i), abs(k.j)))
	}

	assert.Len(t, ringKeys(center, 3), 24)
}
