// Package geo normalizes geographic coordinates onto a fixed grid so that
// nearby plants produce identical renewables.ninja requests and therefore
// share one cache entry.
//
// The snap step floors toward negative infinity: -0.3 becomes -0.5, not 0.
package geo

import (
	"math"
	"strconv"
)

const (
	// DefaultResolution is the grid step in degrees.
	DefaultResolution = 0.5

	// DefaultDigits is the number of decimals kept before snapping.
	DefaultDigits = 1
)

// Round normalizes coords with DefaultResolution and DefaultDigits.
//
//	Round(45.4451574, 11.1331589) // [45 11]
func Round(coords ...float64) []float64 {
	return RoundCoords(DefaultResolution, DefaultDigits, coords...)
}

// RoundCoords rounds every coordinate to ndigits decimals and then snaps it
// down to the nearest multiple of res. A non-positive res skips the snap.
// A negative ndigits rounds to tens, hundreds and so on.
func RoundCoords(res float64, ndigits int, coords ...float64) []float64 {
	out := make([]float64, len(coords))
	for i, c := range coords {
		out[i] = RoundCoord(c, res, ndigits)
	}
	return out
}

// RoundCoord normalizes a single coordinate.
func RoundCoord(coord, res float64, ndigits int) float64 {
	if math.IsNaN(coord) || math.IsInf(coord, 0) {
		return coord
	}

	v := roundDigits(coord, ndigits)

	if res > 0 {
		v = math.Floor(v/res) * res
	}

	// -0 would otherwise leak into cache keys as "-0"
	if v == 0 {
		return 0
	}
	return v
}

// roundDigits rounds the exact binary value of x to ndigits decimals,
// ties to even. 0.95 is stored just below the tie and rounds to 0.9.
func roundDigits(x float64, ndigits int) float64 {
	if ndigits < 0 {
		scale := math.Pow(10, float64(-ndigits))
		return math.RoundToEven(x/scale) * scale
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', ndigits, 64), 64)
	if err != nil {
		return x
	}
	return v
}
