// Package testutil provides reusable assertions for reconstruction tests.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	FloatTolerance   = 1e-9
	WindowTolerance  = 1e-10
)

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	n := len(s)
	for i := range n / 2 {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "found non-finite value", "s[%d] = %v", i, v)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f not in range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertFloatsInDelta compares two float slices elementwise.
func AssertFloatsInDelta(t *testing.T, expected, actual []float64, delta float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, expected[i], actual[i], delta, "index %d", i) {
			return false
		}
	}
	return true
}

// AssertComplexInDelta compares two complex slices elementwise by the
// magnitude of their difference.
func AssertComplexInDelta(t *testing.T, expected, actual []complex128, delta float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if d := cmplx.Abs(expected[i] - actual[i]); d > delta {
			return assert.Fail(t, "complex values differ",
				"index %d: expected %v, got %v (|diff| %g > %g)", i, expected[i], actual[i], d, delta)
		}
	}
	return true
}

// AssertInt16Within compares two sample slices, allowing each sample to be
// off by at most slack counts.
func AssertInt16Within(t *testing.T, expected, actual []int16, slack int) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		d := int(expected[i]) - int(actual[i])
		if d < -slack || d > slack {
			return assert.Fail(t, "samples differ",
				"index %d: expected %d, got %d (slack %d)", i, expected[i], actual[i], slack)
		}
	}
	return true
}

// Repeat returns pattern concatenated n times.
func Repeat[T any](pattern []T, n int) []T {
	out := make([]T, 0, len(pattern)*n)
	for range n {
		out = append(out, pattern...)
	}
	return out
}

// ConstantBlocks returns rows x cols complex samples all equal to v.
func ConstantBlocks(rows, cols int, v complex128) [][]complex128 {
	blocks := make([][]complex128, rows)
	for r := range blocks {
		blocks[r] = make([]complex128, cols)
		for c := range blocks[r] {
			blocks[r][c] = v
		}
	}
	return blocks
}
