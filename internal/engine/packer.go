// Package engine implements the per-input reconstruction stages: packing
// recorded channels into the remapped band, inverse polyphase filtering,
// spectral synthesis and 16-bit quantisation.
//
// Spectra are stored block-major: element (b, k) of a buffer with
// numChannels columns lives at index b*numChannels + k.
package engine

import (
	"fmt"
	"math/cmplx"

	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

// packColumn is the resolved destination of one input row.
type packColumn struct {
	index   int
	flipped bool
	gain    complex128
}

// Pack places each recorded channel's samples into its remapped column of a
// zero-initialised buffer that is outChannels wide. Row i of blocks holds the
// samples of channel channelOrder[i].
//
// Flipped channels are conjugated. Channels other than 0 that land on column
// 0 or column outChannels-1 are doubled. It returns the buffer and the number
// of blocks.
func Pack(blocks [][]complex128, channelOrder []int, r remap.ChannelRemapping, outChannels int) ([]complex128, int, error) {
	cols, numBlocks, err := resolveColumns(blocks, channelOrder, r, outChannels)
	if err != nil {
		return nil, 0, err
	}

	buf := make([]complex128, numBlocks*outChannels)
	for i, col := range cols {
		for b, v := range blocks[i] {
			if col.flipped {
				v = cmplx.Conj(v)
			}
			buf[b*outChannels+col.index] = v * col.gain
		}
	}
	return buf, numBlocks, nil
}

func resolveColumns(blocks [][]complex128, channelOrder []int, r remap.ChannelRemapping, outChannels int) ([]packColumn, int, error) {
	switch {
	case len(r.ChannelMap) == 0:
		return nil, 0, fmt.Errorf("%w: channel remapping is empty", ErrInvalidParameter)
	case r.NewSamplingFreq <= 0:
		return nil, 0, fmt.Errorf("%w: new sampling frequency must be positive, got %d",
			ErrInvalidParameter, r.NewSamplingFreq)
	case outChannels < 1:
		return nil, 0, fmt.Errorf("%w: output channel count must be positive, got %d", ErrInvalidParameter, outChannels)
	case len(channelOrder) != len(r.ChannelMap):
		return nil, 0, fmt.Errorf("%w: channel order lists %d channels, remapping has %d",
			ErrInvalidParameter, len(channelOrder), len(r.ChannelMap))
	case len(blocks) != len(channelOrder):
		return nil, 0, fmt.Errorf("%w: %d sample rows for %d channels",
			ErrInvalidParameter, len(blocks), len(channelOrder))
	}

	numBlocks := len(blocks[0])
	limit := r.NewSamplingFreq / half
	seen := make(map[int]struct{}, len(channelOrder))
	cols := make([]packColumn, len(channelOrder))

	for i, ch := range channelOrder {
		if len(blocks[i]) != numBlocks {
			return nil, 0, fmt.Errorf("%w: row %d has %d blocks, expected %d",
				ErrInvalidParameter, i, len(blocks[i]), numBlocks)
		}
		rc, ok := r.ChannelMap[ch]
		if !ok {
			return nil, 0, fmt.Errorf("%w: channel %d is not in the remapping", ErrInvalidParameter, ch)
		}
		if _, dup := seen[ch]; dup {
			return nil, 0, fmt.Errorf("%w: channel %d listed twice", ErrInvalidParameter, ch)
		}
		seen[ch] = struct{}{}

		if rc.NewChannel < 0 || rc.NewChannel >= outChannels || rc.NewChannel > limit {
			return nil, 0, fmt.Errorf("%w: channel %d remapped to column %d, outside %d columns at rate %d",
				ErrInvalidParameter, ch, rc.NewChannel, outChannels, r.NewSamplingFreq)
		}

		gain := complex128(1)
		if ch != 0 && (rc.NewChannel == 0 || rc.NewChannel == outChannels-1) {
			gain = edgeGain
		}
		cols[i] = packColumn{index: rc.NewChannel, flipped: rc.Flipped, gain: gain}
	}

	return cols, numBlocks, nil
}
