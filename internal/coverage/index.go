package coverage

import (
	"math"

	"github.com/openurban/facility-map/internal/geodist"
)

// IndexKind selects the nearest-neighbor strategy.
type IndexKind string

const (
	// IndexLinear scans every record per query. The reference behavior;
	// fine at low-thousands of records.
	IndexLinear IndexKind = "linear"

	// IndexBucket snaps records into uniform grid buckets and searches
	// expanding rings. Same results, sublinear per query.
	IndexBucket IndexKind = "bucket"
)

// Neighbors answers nearest-facility distance queries in meters. An empty
// index returns +Inf, never NaN.
type Neighbors interface {
	Nearest(lat, lng float64) float64
}

type point struct {
	lat, lng float64
}

func buildIndex(kind IndexKind, pts []point, dist geodist.Func) Neighbors {
	if kind == IndexBucket {
		return newBucketIndex(pts, dist)
	}
	return &linearIndex{pts: pts, dist: dist}
}

// linearIndex is the brute-force scan.
type linearIndex struct {
	pts  []point
	dist geodist.Func
}

func (ix *linearIndex) Nearest(lat, lng float64) float64 {
	best := math.Inf(1)
	for _, p := range ix.pts {
		if d := ix.dist(lat, lng, p.lat, p.lng); d < best {
			best = d
		}
	}
	return best
}

// bucketCellDeg is the bucket edge length in degrees, roughly one kilometer
// of latitude.
const bucketCellDeg = 0.01

type bucketKey struct {
	i, j int
}

// bucketIndex keys points by snapped coordinate and searches outward ring by
// ring, stopping once no unvisited ring can beat the best distance found.
type bucketIndex struct {
	buckets                map[bucketKey][]point
	minI, maxI, minJ, maxJ int
	dist                   geodist.Func
	empty                  bool
}

func newBucketIndex(pts []point, dist geodist.Func) *bucketIndex {
	ix := &bucketIndex{
		buckets: make(map[bucketKey][]point),
		dist:    dist,
		empty:   len(pts) == 0,
	}
	for n, p := range pts {
		k := keyFor(p.lat, p.lng)
		ix.buckets[k] = append(ix.buckets[k], p)
		if n == 0 {
			ix.minI, ix.maxI = k.i, k.i
			ix.minJ, ix.maxJ = k.j, k.j
			continue
		}
		ix.minI, ix.maxI = min(ix.minI, k.i), max(ix.maxI, k.i)
		ix.minJ, ix.maxJ = min(ix.minJ, k.j), max(ix.maxJ, k.j)
	}
	return ix
}

// maxRing is the Chebyshev distance from the center to the farthest occupied
// bucket; rings beyond it cannot contain points.
func (ix *bucketIndex) maxRing(center bucketKey) int {
	di := max(abs(center.i-ix.minI), abs(center.i-ix.maxI))
	dj := max(abs(center.j-ix.minJ), abs(center.j-ix.maxJ))
	return max(di, dj)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func keyFor(lat, lng float64) bucketKey {
	return bucketKey{
		i: int(math.Floor(lat / bucketCellDeg)),
		j: int(math.Floor(lng / bucketCellDeg)),
	}
}

func (ix *bucketIndex) Nearest(lat, lng float64) float64 {
	if ix.empty {
		return math.Inf(1)
	}

	center := keyFor(lat, lng)
	best := math.Inf(1)

	// A point in ring r is at least (r-1) bucket widths away. Halve the
	// smaller meters-per-degree axis so the bound stays conservative even
	// for metros at higher latitudes, where longitude degrees shrink.
	minMetersPerRing := 0.5 * bucketCellDeg * math.Min(geodist.MetersPerDegreeLat, geodist.DefaultMetersPerDegreeLng)

	for ring, last := 0, ix.maxRing(center); ring <= last; ring++ {
		if !math.IsInf(best, 1) && float64(ring-1)*minMetersPerRing > best {
			break
		}
		for _, k := range ringKeys(center, ring) {
			for _, p := range ix.buckets[k] {
				if d := ix.dist(lat, lng, p.lat, p.lng); d < best {
					best = d
				}
			}
		}
	}
	return best
}

// ringKeys enumerates the bucket keys on the square ring at Chebyshev
// distance r from the center. Ring 0 is the center bucket itself.
func ringKeys(center bucketKey, r int) []bucketKey {
	if r == 0 {
		return []bucketKey{center}
	}
	keys := make([]bucketKey, 0, 8*r)
	for dj := -r; dj <= r; dj++ {
		keys = append(keys,
			bucketKey{i: center.i - r, j: center.j + dj},
			bucketKey{i: center.i + r, j: center.j + dj},
		)
	}
	for di := -r + 1; di <= r-1; di++ {
		keys = append(keys,
			bucketKey{i: center.i + di, j: center.j - r},
			bucketKey{i: center.i + di, j: center.j + r},
		)
	}
	return keys
}
