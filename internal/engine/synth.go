package engine

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Synthesizer turns packed half spectra into real time samples with an
// unnormalised inverse real DFT of fixed length.
//
// A Synthesizer reuses its transform plan and is not safe for concurrent
// use. Create one per goroutine.
type Synthesizer struct {
	samplesPerBlock int
	bins            int
	fft             *fourier.FFT
}

// NewSynthesizer creates a synthesizer producing samplesPerBlock real
// samples from each block.
func NewSynthesizer(samplesPerBlock int) (*Synthesizer, error) {
	if samplesPerBlock < 1 {
		return nil, fmt.Errorf("%w: samples per block must be positive, got %d", ErrInvalidParameter, samplesPerBlock)
	}
	return &Synthesizer{
		samplesPerBlock: samplesPerBlock,
		bins:            samplesPerBlock/half + 1,
		fft:             fourier.NewFFT(samplesPerBlock),
	}, nil
}

// SamplesPerBlock returns the transform length.
func (s *Synthesizer) SamplesPerBlock() int {
	return s.samplesPerBlock
}

// Bins returns the number of leading columns each block contributes.
func (s *Synthesizer) Bins() int {
	return s.bins
}

// Synthesize computes, for every block of buf,
//
//	x[n] = sum_{k=0}^{N-1} X[k] * exp(2*pi*i*k*n/N)
//
// where X is the Hermitian extension of the block's first N/2+1 columns.
// The imaginary parts of the DC and Nyquist bins are ignored. Columns past
// N/2 are not read. The result holds numBlocks*N samples, block-major.
func (s *Synthesizer) Synthesize(buf []complex128, numBlocks, numChannels int) ([]float64, error) {
	if numBlocks < 0 || numChannels < 1 || len(buf) != numBlocks*numChannels {
		return nil, fmt.Errorf("%w: buffer of %d values is not %d blocks x %d channels",
			ErrInvalidParameter, len(buf), numBlocks, numChannels)
	}
	if numChannels < s.bins {
		return nil, fmt.Errorf("%w: %d channels cannot hold the %d bins of a %d-point transform",
			ErrInvalidParameter, numChannels, s.bins, s.samplesPerBlock)
	}

	n := s.samplesPerBlock
	out := make([]float64, numBlocks*n)
	for b := range numBlocks {
		row := buf[b*numChannels : b*numChannels+s.bins]
		s.fft.Sequence(out[b*n:(b+1)*n], row)
	}
	return out, nil
}
