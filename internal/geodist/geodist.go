// Package geodist provides distance functions over WGS84 coordinates.
//
// Two interchangeable models are exposed: a fast planar approximation tuned
// for a single metro-scale latitude band, and the haversine great-circle
// formula for correctness-sensitive callers. Both take degrees and return
// meters.
package geodist

import (
	"math"

	"github.com/rotisserie/eris"
)

const (
	// EarthRadiusM is the mean Earth radius used by Haversine.
	EarthRadiusM = 6371000.0

	// MetersPerDegreeLat is the approximate length of one degree of
	// latitude, constant everywhere on the sphere.
	MetersPerDegreeLat = 111000.0

	// DefaultMetersPerDegreeLng approximates longitude degree length at the
	// target metro's latitude band (~40°N). Accuracy degrades as points
	// drift out of that band.
	DefaultMetersPerDegreeLng = 85000.0
)

// Func computes the distance in meters between two points given in degrees.
type Func func(lat1, lng1, lat2, lng2 float64) float64

// FastPlanar is the planar approximation with the default longitude scale.
// Valid for regions spanning a few tens of kilometers; no trig calls, so it
// is the default for the coverage sampler's inner loop.
func FastPlanar(lat1, lng1, lat2, lng2 float64) float64 {
	dx := (lat2 - lat1) * MetersPerDegreeLat
	dy := (lng2 - lng1) * DefaultMetersPerDegreeLng
	return math.Sqrt(dx*dx + dy*dy)
}

// Planar returns a planar approximation using the given longitude degree
// length, for metros outside the default latitude band.
func Planar(metersPerDegreeLng float64) Func {
	return func(lat1, lng1, lat2, lng2 float64) float64 {
		dx := (lat2 - lat1) * MetersPerDegreeLat
		dy := (lng2 - lng1) * metersPerDegreeLng
		return math.Sqrt(dx*dx + dy*dy)
	}
}

// Haversine is the great-circle distance. Accurate globally, including
// antipodal and zero-distance inputs.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	a := sinLat*sinLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sinLng*sinLng

	// Floating error can push a fractionally outside [0,1] for antipodal
	// points; clamp before the square roots.
	if a > 1 {
		a = 1
	}
	if a < 0 {
		a = 0
	}

	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ByName resolves a configured distance function. Recognized names are
// "planar" and "haversine".
func ByName(name string) (Func, error) {
	switch name {
	case "planar", "":
		return FastPlanar, nil
	case "haversine":
		return Haversine, nil
	default:
		return nil, eris.Errorf("geodist: unknown distance function %q", name)
	}
}
