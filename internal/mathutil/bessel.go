// Package mathutil provides the special functions used by filter design.
package mathutil

import "math"

const (
	// seriesEpsilon stops the I0 series once a term no longer changes the sum.
	seriesEpsilon = 1e-17
	// seriesMaxTerms bounds the series for very large arguments.
	seriesMaxTerms = 500

	// Kaiser & Schafer empirical beta formula.
	kaiserAttHigh          = 50.0
	kaiserAttMedium        = 21.0
	kaiserBetaHighSlope    = 0.1102
	kaiserBetaHighOffset   = 8.7
	kaiserBetaMediumCoeff  = 0.5842
	kaiserBetaMediumPower  = 0.4
	kaiserBetaMediumLinear = 0.07886
)

// BesselI0 computes the modified Bessel function of the first kind, order
// zero, from its power series:
//
//	I0(x) = sum_k ((x/2)^k / k!)^2
//
// The series converges for every x and is accurate to double precision over
// the Kaiser beta range.
func BesselI0(x float64) float64 {
	q := (x / 2) * (x / 2)
	sum := 1.0
	term := 1.0
	for k := 1; k <= seriesMaxTerms; k++ {
		kf := float64(k)
		term *= q / (kf * kf)
		sum += term
		if term < seriesEpsilon*sum {
			break
		}
	}
	return sum
}

// KaiserBeta returns the Kaiser window beta that achieves the given
// stopband attenuation in dB.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighSlope * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		d := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff*math.Pow(d, kaiserBetaMediumPower) + kaiserBetaMediumLinear*d
	default:
		return 0
	}
}
