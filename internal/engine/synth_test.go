package engine

import (
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-mwa-tdr/internal/testutil"
)

const synthTolerance = 1e-9

// hermitianReference expands a half spectrum and inverts it with an
// independent FFT, undoing its 1/N normalisation.
func hermitianReference(half []complex128, n int) []float64 {
	full := make([]complex128, n)
	bins := n/2 + 1
	for k := range bins {
		v := half[k]
		if k == 0 || (n%2 == 0 && k == n/2) {
			v = complex(real(v), 0)
		}
		full[k] = v
		if k > 0 && k < n-k {
			full[n-k] = cmplx.Conj(v)
		}
	}

	inv := fft.IFFT(full)
	out := make([]float64, n)
	for i, v := range inv {
		out[i] = real(v) * float64(n)
	}
	return out
}

func TestSynthesize_KnownBlocks(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		row      []complex128
		expected []float64
	}{
		{
			name:     "two_cosines",
			n:        8,
			row:      []complex128{0, 1, 0, 1, 0, 0},
			expected: []float64{4, 0, 0, 0, -4, 0, 0, 0},
		},
		{
			name:     "dc_only",
			n:        2,
			row:      []complex128{8, 0},
			expected: []float64{8, 8},
		},
		{
			name:     "nyquist_only",
			n:        4,
			row:      []complex128{0, 0, 1},
			expected: []float64{1, -1, 1, -1},
		},
		{
			name:     "dc_and_nyquist_imaginary_ignored",
			n:        4,
			row:      []complex128{2 + 5i, 0, 1 - 3i},
			expected: []float64{3, 1, 3, 1},
		},
		{
			name:     "single_sample",
			n:        1,
			row:      []complex128{-3 + 1i, 99},
			expected: []float64{-3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSynthesizer(tt.n)
			require.NoError(t, err)

			out, err := s.Synthesize(tt.row, 1, len(tt.row))
			require.NoError(t, err)
			testutil.AssertFloatsInDelta(t, tt.expected, out, synthTolerance)
		})
	}
}

// TestSynthesize_MatchesReference compares random blocks of several
// lengths against an independent inverse FFT.
func TestSynthesize_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, n := range []int{2, 3, 10, 30, 46, 64, 513} {
		const numBlocks = 4
		s, err := NewSynthesizer(n)
		require.NoError(t, err)

		numChannels := s.Bins() + 3
		buf := make([]complex128, numBlocks*numChannels)
		for i := range buf {
			buf[i] = complex(rng.NormFloat64()*10, rng.NormFloat64()*10)
		}

		out, err := s.Synthesize(buf, numBlocks, numChannels)
		require.NoError(t, err)
		require.Len(t, out, numBlocks*n)

		for b := range numBlocks {
			ref := hermitianReference(buf[b*numChannels:(b+1)*numChannels], n)
			testutil.AssertFloatsInDelta(t, ref, out[b*n:(b+1)*n], 1e-6)
		}
	}
}

func TestSynthesize_ZeroBlocks(t *testing.T) {
	s, err := NewSynthesizer(8)
	require.NoError(t, err)
	out, err := s.Synthesize(nil, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSynthesize_InvalidInput(t *testing.T) {
	_, err := NewSynthesizer(0)
	require.ErrorIs(t, err, ErrInvalidParameter)

	s, err := NewSynthesizer(8)
	require.NoError(t, err)

	_, err = s.Synthesize(make([]complex128, 8), 2, 4)
	require.ErrorIs(t, err, ErrInvalidParameter, "too few channels for the transform")

	_, err = s.Synthesize(make([]complex128, 9), 2, 5)
	require.ErrorIs(t, err, ErrInvalidParameter, "buffer size mismatch")
}

func BenchmarkSynthesize(b *testing.B) {
	const (
		n         = 46
		numBlocks = 10000
	)
	s, err := NewSynthesizer(n)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]complex128, numBlocks*s.Bins())
	for i := range buf {
		buf[i] = complex(float64(i%11), -float64(i%3))
	}
	for b.Loop() {
		if _, err := s.Synthesize(buf, numBlocks, s.Bins()); err != nil {
			b.Fatal(err)
		}
	}
}
