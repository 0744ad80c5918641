package tdr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-mwa-tdr/internal/testutil"
)

// unitTaps returns a single-tap unit-gain tap array over all channels.
func unitTaps() []complex128 {
	return testutil.Repeat([]complex128{1}, TapChannels)
}

// rampBlocks gives every row a distinct, block-varying signal.
func rampBlocks(order []int, numBlocks int) [][]complex128 {
	blocks := make([][]complex128, len(order))
	for i, ch := range order {
		row := make([]complex128, numBlocks)
		for b := range row {
			row[b] = complex(float64(ch+b%5), float64(i-b%3))
		}
		blocks[i] = row
	}
	return blocks
}

func TestComputeRemapping(t *testing.T) {
	r, err := ComputeRemapping(SamplingRate, []int{5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, 10, r.NewSamplingFreq)
	assert.Equal(t, RemappedChannel{NewChannel: 4, Flipped: true}, r.ChannelMap[6])

	_, err = ComputeRemapping(SamplingRate, []int{257})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestProcessSignal_ZeroSignal(t *testing.T) {
	const numBlocks = 50

	r := ChannelRemapping{NewSamplingFreq: 513, ChannelMap: map[int]RemappedChannel{}}
	order := make([]int, TapChannels)
	for i := range order {
		order[i] = i
		r.ChannelMap[i] = RemappedChannel{NewChannel: i}
	}

	out, err := ProcessSignal(testutil.ConstantBlocks(TapChannels, numBlocks, 0), order, unitTaps(), r)
	require.NoError(t, err)
	require.Len(t, out, numBlocks*513)
	assert.Equal(t, make([]int16, numBlocks*513), out)
}

func TestProcessSignal_MatchesBank(t *testing.T) {
	order := []int{9, 5, 7, 6, 8}
	r, err := ComputeRemapping(SamplingRate, order)
	require.NoError(t, err)
	blocks := rampBlocks(order, 16)

	bank, err := NewFilterBank(unitTaps())
	require.NoError(t, err)

	fromTaps, err := ProcessSignal(blocks, order, unitTaps(), r)
	require.NoError(t, err)
	fromBank, err := ProcessSignalWithBank(blocks, order, bank, r)
	require.NoError(t, err)

	require.Len(t, fromTaps, 16*r.NewSamplingFreq)
	assert.Equal(t, fromTaps, fromBank)
}

func TestProcessSignal_InvalidInput(t *testing.T) {
	order := []int{5, 6, 7, 8, 9}
	r, err := ComputeRemapping(SamplingRate, order)
	require.NoError(t, err)

	t.Run("empty_remapping", func(t *testing.T) {
		empty := ChannelRemapping{NewSamplingFreq: SamplingRate, ChannelMap: map[int]RemappedChannel{}}
		out, err := ProcessSignal(rampBlocks(order, 4), order, unitTaps(), empty)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Nil(t, out)
	})

	t.Run("ragged_blocks", func(t *testing.T) {
		blocks := rampBlocks(order, 4)
		blocks[2] = blocks[2][:3]
		out, err := ProcessSignal(blocks, order, unitTaps(), r)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Nil(t, out)
	})

	t.Run("taps_not_multiple_of_channels", func(t *testing.T) {
		out, err := ProcessSignal(rampBlocks(order, 4), order, make([]complex128, TapChannels+3), r)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Nil(t, out)
	})

	t.Run("filter_longer_than_signal", func(t *testing.T) {
		taps := make([]complex128, 5*TapChannels)
		out, err := ProcessSignal(rampBlocks(order, 4), order, taps, r)
		require.ErrorIs(t, err, ErrInvalidParameter)
		assert.Nil(t, out)
	})
}

func TestLoadFilterBank_Missing(t *testing.T) {
	_, err := LoadFilterBank(t.TempDir() + "/missing.bin")
	require.Error(t, err)
}

func TestSIMDInfo(t *testing.T) {
	assert.NotEmpty(t, SIMDInfo())
}
