// Package filter holds the inverse polyphase filter bank applied along time
// to every reconstructed channel, and a Kaiser windowed-sinc designer for
// generating synthetic banks.
package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/tphakala/go-mwa-tdr/internal/mathutil"
	"github.com/tphakala/go-mwa-tdr/internal/simdops"
)

const (
	// maxDesignTaps is bounded by the single length byte of a filter file.
	maxDesignTaps = 255

	sincZeroThreshold = 1e-10
	nyquistCutoff     = 0.5
	centerDivisor     = 2.0

	defaultResponsePoints = 512
)

// KaiserWindow returns a Kaiser window of the given length:
//
//	w[n] = I0(beta * sqrt(1 - ((n - a)/a)^2)) / I0(beta),  a = (length-1)/2
//
// The peak is 1.0 and the window is symmetric.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}
	if length == 1 {
		return []float64{1}
	}

	window := make([]float64, length)
	alpha := float64(length-1) / centerDivisor
	i0Beta := mathutil.BesselI0(beta)
	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}
	return window
}

// DesignParams describes a synthetic synthesis filter.
type DesignParams struct {
	// Length is the number of taps per channel.
	Length int

	// TapChannels is the number of channels to replicate the prototype over.
	TapChannels int

	// Cutoff is the normalised cutoff of the prototype, in (0, 0.5].
	// 0.5 yields a pure window.
	Cutoff float64

	// Beta is the Kaiser shape parameter. Zero selects one from Attenuation.
	Beta float64

	// Attenuation is the stopband attenuation in dB used when Beta is zero.
	Attenuation float64
}

// Validate checks the design parameters.
func (p *DesignParams) Validate() error {
	if p.Length < 1 || p.Length > maxDesignTaps {
		return fmt.Errorf("%w: filter length %d outside [1, %d]", ErrInvalidParameter, p.Length, maxDesignTaps)
	}
	if p.TapChannels < 1 {
		return fmt.Errorf("%w: tap channel count must be positive, got %d", ErrInvalidParameter, p.TapChannels)
	}
	if p.Cutoff <= 0 || p.Cutoff > nyquistCutoff {
		return fmt.Errorf("%w: cutoff %g outside (0, 0.5]", ErrInvalidParameter, p.Cutoff)
	}
	if p.Beta < 0 || p.Attenuation < 0 {
		return fmt.Errorf("%w: beta and attenuation must not be negative", ErrInvalidParameter)
	}
	return nil
}

// Prototype designs the windowed-sinc prototype shared by all channels,
// normalised to unit gain at DC.
func Prototype(p DesignParams) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	beta := p.Beta
	if beta == 0 && p.Attenuation > 0 {
		beta = mathutil.KaiserBeta(p.Attenuation)
	}

	taps := make([]float64, p.Length)
	center := float64(p.Length-1) / centerDivisor
	for n := range taps {
		x := float64(n) - center
		if math.Abs(x) < sincZeroThreshold {
			taps[n] = centerDivisor * p.Cutoff
		} else {
			taps[n] = math.Sin(centerDivisor*math.Pi*p.Cutoff*x) / (math.Pi * x)
		}
	}
	vecmath.MulBlockInPlace(taps, KaiserWindow(p.Length, beta))

	if sum := simdops.Sum(taps); math.Abs(sum) > sincZeroThreshold {
		simdops.Scale(taps, taps, 1.0/sum)
	}
	return taps, nil
}

// Design builds a bank in which every channel uses the same prototype.
func Design(p DesignParams) (*Bank, error) {
	proto, err := Prototype(p)
	if err != nil {
		return nil, err
	}

	coeffs := make([]float64, p.Length*p.TapChannels)
	for t, h := range proto {
		row := coeffs[t*p.TapChannels : (t+1)*p.TapChannels]
		for c := range row {
			row[c] = h
		}
	}
	return NewRealBank(coeffs, p.TapChannels)
}

// Response holds a sampled magnitude response.
type Response struct {
	// Frequencies are normalised, from 0 up to but excluding 0.5.
	Frequencies []float64
	Magnitude   []float64
}

// FrequencyResponse evaluates the DTFT magnitude of one channel's kernel.
func (b *Bank) FrequencyResponse(channel, numPoints int) Response {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	kernel := b.Kernel(channel)
	resp := Response{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
	}
	for k := range numPoints {
		freq := float64(k) / float64(centerDivisor*float64(numPoints))
		omega := centerDivisor * math.Pi * freq

		var acc complex128
		for n, h := range kernel {
			angle := omega * float64(n)
			acc += h * complex(math.Cos(angle), -math.Sin(angle))
		}
		resp.Frequencies[k] = freq
		resp.Magnitude[k] = math.Hypot(real(acc), imag(acc))
	}
	return resp
}

// MagnitudeDB converts a linear magnitude to decibels, flooring at -200 dB.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10
		dbMultiplier = 20.0
	)
	return dbMultiplier * math.Log10(max(magnitude, minMagnitude))
}
