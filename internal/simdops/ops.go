// Package simdops wraps the SIMD kernels used by the reconstruction stages.
//
// Complex data is processed either as interleaved complex128 through the
// c128 kernels, or as split real and imaginary float64 planes through the
// f64 kernels when one operand is known to be real.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Planes holds a complex vector as separate real and imaginary slices.
type Planes struct {
	Re []float64
	Im []float64
}

// NewPlanes allocates planes of length n.
func NewPlanes(n int) Planes {
	return Planes{Re: make([]float64, n), Im: make([]float64, n)}
}

// Zero clears every element.
func (p Planes) Zero() {
	clear(p.Re)
	clear(p.Im)
}

// ComplexDot returns sum(a[i] * b[i]) over len(a) elements, using scratch
// for the elementwise products. b and scratch must hold at least len(a)
// elements.
func ComplexDot(scratch, a, b []complex128) complex128 {
	n := len(a)
	prod := scratch[:n]
	c128.Mul(prod, a, b[:n])

	var sum complex128
	for _, v := range prod {
		sum += v
	}
	return sum
}

// RealComplexDot returns sum(h[i] * (xRe[i] + j*xIm[i])) for a real kernel h.
// xRe and xIm must hold at least len(h) elements.
func RealComplexDot(h, xRe, xIm []float64) complex128 {
	n := len(h)
	re := f64.DotProductUnsafe(h, xRe[:n])
	im := f64.DotProductUnsafe(h, xIm[:n])
	return complex(re, im)
}

// Scale multiplies a by s into dst.
func Scale(dst, a []float64, s float64) {
	f64.Scale(dst, a, s)
}

// Sum returns the sum of all elements.
func Sum(a []float64) float64 {
	return f64.Sum(a)
}

// Info describes the SIMD instruction set selected at runtime.
func Info() string {
	return cpu.Info()
}
