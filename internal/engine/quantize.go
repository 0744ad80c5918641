package engine

import "math"

// Quantize truncates every sample toward zero and saturates it to the
// int16 range. NaN becomes 0.
func Quantize(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = quantizeSample(v)
	}
	return out
}

func quantizeSample(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= int16Max:
		return int16Max
	case v <= int16Min:
		return int16Min
	default:
		return int16(math.Trunc(v))
	}
}
