package filter

import (
	"fmt"

	"github.com/tphakala/go-mwa-tdr/internal/dsperr"
)

// ErrInvalidParameter is returned for malformed tap sets.
var ErrInvalidParameter = dsperr.ErrInvalidParameter

// DefaultTapChannels is the number of coarse channels the MWA inverse
// polyphase filter is defined over.
const DefaultTapChannels = 256

const bytesPerComplex128 = 16

// Bank holds the inverse polyphase synthesis filter for every tap channel.
//
// Coefficient storage format (per tap, per channel):
//
//	[tap0_ch0, tap0_ch1, ..., tap0_chN, tap1_ch0, ..., tapL_chN]
//
// so tap t of channel c lives at Coeffs[t*TapChannels + c]. This is the
// order the instrument filter files are written in.
type Bank struct {
	coeffs      []complex128
	tapChannels int
	length      int
	real        bool
}

// NewBank wraps coeffs as a bank over tapChannels channels. The slice is
// retained and must not be modified afterwards.
func NewBank(coeffs []complex128, tapChannels int) (*Bank, error) {
	if tapChannels < 1 {
		return nil, fmt.Errorf("%w: tap channel count must be positive, got %d", ErrInvalidParameter, tapChannels)
	}
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: filter taps are empty", ErrInvalidParameter)
	}
	if len(coeffs)%tapChannels != 0 {
		return nil, fmt.Errorf("%w: %d taps is not a multiple of %d channels",
			ErrInvalidParameter, len(coeffs), tapChannels)
	}

	isReal := true
	for _, c := range coeffs {
		if imag(c) != 0 {
			isReal = false
			break
		}
	}

	return &Bank{
		coeffs:      coeffs,
		tapChannels: tapChannels,
		length:      len(coeffs) / tapChannels,
		real:        isReal,
	}, nil
}

// NewRealBank builds a bank from real-valued coefficients in the same layout.
func NewRealBank(coeffs []float64, tapChannels int) (*Bank, error) {
	c := make([]complex128, len(coeffs))
	for i, v := range coeffs {
		c[i] = complex(v, 0)
	}
	return NewBank(c, tapChannels)
}

// Length returns the number of taps per channel.
func (b *Bank) Length() int {
	return b.length
}

// TapChannels returns the number of channels the bank covers.
func (b *Bank) TapChannels() int {
	return b.tapChannels
}

// IsReal reports whether every coefficient has a zero imaginary part.
func (b *Bank) IsReal() bool {
	return b.real
}

// Coeffs returns the underlying coefficients. Callers must not modify them.
func (b *Bank) Coeffs() []complex128 {
	return b.coeffs
}

// Tap returns tap t of channel.
func (b *Bank) Tap(channel, t int) complex128 {
	return b.coeffs[t*b.tapChannels+channel]
}

// Kernel gathers the taps of one channel into a new slice.
func (b *Bank) Kernel(channel int) []complex128 {
	k := make([]complex128, b.length)
	for t := range k {
		k[t] = b.coeffs[t*b.tapChannels+channel]
	}
	return k
}

// CheckChannel verifies that channel has taps in this bank.
func (b *Bank) CheckChannel(channel int) error {
	if channel < 0 || channel >= b.tapChannels {
		return fmt.Errorf("%w: channel %d has no filter taps (bank covers %d channels)",
			ErrInvalidParameter, channel, b.tapChannels)
	}
	return nil
}

// CheckBlocks verifies that a stream of numBlocks blocks is at least one
// filter length long.
func (b *Bank) CheckBlocks(numBlocks int) error {
	if b.length > numBlocks {
		return fmt.Errorf("%w: filter length %d exceeds %d blocks", ErrInvalidParameter, b.length, numBlocks)
	}
	return nil
}

// MemoryUsage returns the approximate coefficient storage in bytes.
func (b *Bank) MemoryUsage() int64 {
	return int64(len(b.coeffs)) * bytesPerComplex128
}
