// Package remap computes the virtual sampling rate and the Nyquist-zone
// channel assignment used to rebuild a time series from a sparse set of
// coarse channels.
//
// A channel c sampled at rate S aliases to c mod S when that residue lies in
// the first Nyquist zone [0, S/2]. Residues above S/2 fold back to S - residue
// and arrive spectrally inverted, so those channels must be conjugated before
// synthesis. Compute finds the smallest even rate at which every selected
// channel folds onto its own slot.
package remap

import (
	"fmt"
	"slices"

	"github.com/tphakala/go-mwa-tdr/internal/dsperr"
)

// ErrInvalidParameter is returned for rates or channels outside the
// addressable band.
var ErrInvalidParameter = dsperr.ErrInvalidParameter

// half is the divisor between a sampling rate and its highest channel.
const half = 2

// RemappedChannel is the slot a channel lands on after aliasing.
type RemappedChannel struct {
	// NewChannel is the column index in the remapped band.
	NewChannel int
	// Flipped marks channels from an even Nyquist zone. Their samples must
	// be complex conjugated.
	Flipped bool
}

// ChannelRemapping describes a complete channel assignment.
type ChannelRemapping struct {
	// NewSamplingFreq is the virtual sampling rate. It addresses slots
	// 0..NewSamplingFreq/2.
	NewSamplingFreq int
	// ChannelMap maps original channel numbers to their slots.
	ChannelMap map[int]RemappedChannel
}

// Alias folds channel into the first Nyquist zone of samplingFreq.
func Alias(channel, samplingFreq int) RemappedChannel {
	nyquist := samplingFreq / half
	d := channel % samplingFreq
	if d < 0 {
		d += samplingFreq
	}
	if d <= nyquist {
		return RemappedChannel{NewChannel: d}
	}
	return RemappedChannel{NewChannel: samplingFreq - d, Flipped: true}
}

// Compute returns the minimal remapping of channels for a signal sampled at
// samplingFreq. Duplicate channels are treated as one.
func Compute(samplingFreq int, channels []int) (ChannelRemapping, error) {
	if samplingFreq <= 0 {
		return ChannelRemapping{}, fmt.Errorf("%w: sampling frequency must be positive, got %d",
			ErrInvalidParameter, samplingFreq)
	}

	nyquist := samplingFreq / half
	set := uniqueSorted(channels)
	for _, c := range set {
		if c < 0 || c > nyquist {
			return ChannelRemapping{}, fmt.Errorf("%w: channel %d outside [0, %d] for sampling frequency %d",
				ErrInvalidParameter, c, nyquist, samplingFreq)
		}
	}

	switch len(set) {
	case 0:
		return ChannelRemapping{NewSamplingFreq: samplingFreq, ChannelMap: map[int]RemappedChannel{}}, nil
	case 1:
		return ChannelRemapping{
			NewSamplingFreq: max(set[0], 1),
			ChannelMap:      map[int]RemappedChannel{set[0]: {NewChannel: 0}},
		}, nil
	}

	// Every channel maps onto itself once the half rate reaches the original
	// Nyquist channel, so the search always terminates.
	for f := len(set) - 1; f <= nyquist; f++ {
		if m, ok := tryFold(set, half*f); ok {
			return ChannelRemapping{NewSamplingFreq: half * f, ChannelMap: m}, nil
		}
	}

	return ChannelRemapping{}, fmt.Errorf("%w: no injective remapping below %d", ErrInvalidParameter, samplingFreq)
}

// tryFold aliases every channel into rate and reports whether no two
// channels collide.
func tryFold(channels []int, rate int) (map[int]RemappedChannel, bool) {
	used := make(map[int]struct{}, len(channels))
	m := make(map[int]RemappedChannel, len(channels))
	for _, c := range channels {
		rc := Alias(c, rate)
		if _, taken := used[rc.NewChannel]; taken {
			return nil, false
		}
		used[rc.NewChannel] = struct{}{}
		m[c] = rc
	}
	return m, true
}

func uniqueSorted(channels []int) []int {
	set := slices.Clone(channels)
	slices.Sort(set)
	return slices.Compact(set)
}

// OutputChannels returns the width of a packed spectrum for this remapping.
func (r ChannelRemapping) OutputChannels() int {
	return r.NewSamplingFreq/half + 1
}

// SortedChannels returns the original channel numbers in ascending order.
func (r ChannelRemapping) SortedChannels() []int {
	keys := make([]int, 0, len(r.ChannelMap))
	for c := range r.ChannelMap {
		keys = append(keys, c)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks that the remapping addresses distinct slots inside the
// band of NewSamplingFreq. Remappings from Compute always pass.
func (r ChannelRemapping) Validate() error {
	if r.NewSamplingFreq <= 0 {
		return fmt.Errorf("%w: new sampling frequency must be positive, got %d",
			ErrInvalidParameter, r.NewSamplingFreq)
	}

	limit := r.NewSamplingFreq / half
	owner := make(map[int]int, len(r.ChannelMap))
	for _, c := range r.SortedChannels() {
		rc := r.ChannelMap[c]
		if rc.NewChannel < 0 || rc.NewChannel > limit {
			return fmt.Errorf("%w: channel %d mapped to %d, outside [0, %d]",
				ErrInvalidParameter, c, rc.NewChannel, limit)
		}
		if prev, taken := owner[rc.NewChannel]; taken {
			return fmt.Errorf("%w: channels %d and %d both mapped to %d",
				ErrInvalidParameter, prev, c, rc.NewChannel)
		}
		owner[rc.NewChannel] = c
	}
	return nil
}
