package engine

import (
	"fmt"

	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
	"github.com/tphakala/go-mwa-tdr/internal/simdops"
)

// ApplyFilter runs the inverse polyphase filter along time, in place, over
// every column that a remapped channel occupies. Each column is filtered
// with the taps of its original channel:
//
//	y[b] = sum_{t=0}^{L-1} h[t] * x[b + L/2 - t]
//
// with x taken as zero outside [0, numBlocks). Unoccupied columns are left
// untouched. All inputs are validated before the buffer is modified.
func ApplyFilter(buf []complex128, numBlocks, numChannels int, bank *filter.Bank, r remap.ChannelRemapping) error {
	if bank == nil {
		return fmt.Errorf("%w: filter bank is nil", ErrInvalidParameter)
	}
	if numBlocks < 0 || numChannels < 1 || len(buf) != numBlocks*numChannels {
		return fmt.Errorf("%w: buffer of %d values is not %d blocks x %d channels",
			ErrInvalidParameter, len(buf), numBlocks, numChannels)
	}
	if err := bank.CheckBlocks(numBlocks); err != nil {
		return err
	}

	channels := r.SortedChannels()
	for _, ch := range channels {
		if err := bank.CheckChannel(ch); err != nil {
			return err
		}
		if col := r.ChannelMap[ch].NewChannel; col < 0 || col >= numChannels {
			return fmt.Errorf("%w: channel %d remapped to column %d, buffer has %d",
				ErrInvalidParameter, ch, col, numChannels)
		}
	}

	f := newColumnFilter(bank.Length(), numBlocks, bank.IsReal())
	for _, ch := range channels {
		f.run(buf, numChannels, r.ChannelMap[ch].NewChannel, bank, ch)
	}
	return nil
}

// columnFilter holds the scratch space for filtering one column at a time.
//
// The convolution is evaluated as a sliding dot product of the time-reversed
// kernel over a zero-padded copy of the column. With lead = L-1-L/2 leading
// zeros, output b is dot(reversed, padded[b : b+L]).
type columnFilter struct {
	length    int
	numBlocks int
	lead      int
	realTaps  bool

	// complex path
	kernel  []complex128
	padded  []complex128
	scratch []complex128

	// real-tap path
	kernelRe []float64
	planes   simdops.Planes

	out []complex128
}

func newColumnFilter(length, numBlocks int, realTaps bool) *columnFilter {
	f := &columnFilter{
		length:    length,
		numBlocks: numBlocks,
		lead:      length - 1 - length/half,
		realTaps:  realTaps,
		out:       make([]complex128, numBlocks),
	}
	paddedLen := numBlocks + length - 1
	if realTaps {
		f.kernelRe = make([]float64, length)
		f.planes = simdops.NewPlanes(paddedLen)
	} else {
		f.kernel = make([]complex128, length)
		f.padded = make([]complex128, paddedLen)
		f.scratch = make([]complex128, length)
	}
	return f
}

func (f *columnFilter) run(buf []complex128, stride, col int, bank *filter.Bank, ch int) {
	for t := range f.length {
		h := bank.Tap(ch, t)
		if f.realTaps {
			f.kernelRe[f.length-1-t] = real(h)
		} else {
			f.kernel[f.length-1-t] = h
		}
	}

	if f.realTaps {
		f.planes.Zero()
		for b := range f.numBlocks {
			v := buf[b*stride+col]
			f.planes.Re[f.lead+b] = real(v)
			f.planes.Im[f.lead+b] = imag(v)
		}
		for b := range f.numBlocks {
			f.out[b] = simdops.RealComplexDot(f.kernelRe, f.planes.Re[b:], f.planes.Im[b:])
		}
	} else {
		clear(f.padded)
		for b := range f.numBlocks {
			f.padded[f.lead+b] = buf[b*stride+col]
		}
		for b := range f.numBlocks {
			f.out[b] = simdops.ComplexDot(f.scratch, f.kernel, f.padded[b:])
		}
	}

	for b, v := range f.out {
		buf[b*stride+col] = v
	}
}
