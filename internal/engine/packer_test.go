package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

const testSamplingFreq = 512

func mustRemap(t *testing.T, channels ...int) remap.ChannelRemapping {
	t.Helper()
	r, err := remap.Compute(testSamplingFreq, channels)
	require.NoError(t, err)
	return r
}

// TestPack_ContiguousRun places five channels folded into rate 10.
func TestPack_ContiguousRun(t *testing.T) {
	r := mustRemap(t, 5, 6, 7, 8, 9)
	out := r.OutputChannels()
	require.Equal(t, 6, out)

	order := []int{9, 5, 7, 6, 8}
	blocks := make([][]complex128, len(order))
	for i := range blocks {
		v := complex(float64(i+1), float64(i+1))
		blocks[i] = []complex128{v, v, v}
	}

	buf, numBlocks, err := Pack(blocks, order, r, out)
	require.NoError(t, err)
	require.Equal(t, 3, numBlocks)
	require.Len(t, buf, numBlocks*out)

	// 9 -> 1 flipped, 5 -> 5 (Nyquist column, doubled), 7 -> 3 flipped,
	// 6 -> 4 flipped, 8 -> 2 flipped.
	expectedRow := []complex128{0, 1 - 1i, 5 - 5i, 3 - 3i, 4 - 4i, 4 + 4i}
	for b := range numBlocks {
		assert.Equal(t, expectedRow, buf[b*out:(b+1)*out], "block %d", b)
	}
}

// TestPack_EdgeGain checks the DC and Nyquist column doubling rules.
func TestPack_EdgeGain(t *testing.T) {
	t.Run("channel_zero_on_dc_is_not_doubled", func(t *testing.T) {
		r := mustRemap(t, 0, 3)
		require.Equal(t, 2, r.NewSamplingFreq)

		buf, _, err := Pack([][]complex128{{1 + 2i}, {3 + 4i}}, []int{0, 3}, r, r.OutputChannels())
		require.NoError(t, err)
		assert.Equal(t, []complex128{1 + 2i, 6 + 8i}, buf)
	})

	t.Run("single_channel_lands_on_dc", func(t *testing.T) {
		r := mustRemap(t, 100)
		out := r.OutputChannels()

		buf, _, err := Pack([][]complex128{{1 - 1i, 2}}, []int{100}, r, out)
		require.NoError(t, err)
		assert.Equal(t, 2-2i, buf[0])
		assert.Equal(t, complex128(4), buf[out])
		for k := 1; k < out; k++ {
			assert.Zero(t, buf[k])
		}
	})

	t.Run("single_column_doubled_once", func(t *testing.T) {
		r := remap.ChannelRemapping{
			NewSamplingFreq: 1,
			ChannelMap:      map[int]remap.RemappedChannel{5: {NewChannel: 0}},
		}
		buf, _, err := Pack([][]complex128{{3 + 1i}}, []int{5}, r, 1)
		require.NoError(t, err)
		assert.Equal(t, []complex128{6 + 2i}, buf)
	})

	t.Run("interior_column_is_not_doubled", func(t *testing.T) {
		r := remap.ChannelRemapping{
			NewSamplingFreq: 8,
			ChannelMap:      map[int]remap.RemappedChannel{7: {NewChannel: 2, Flipped: true}},
		}
		buf, _, err := Pack([][]complex128{{1 + 1i}}, []int{7}, r, 5)
		require.NoError(t, err)
		assert.Equal(t, []complex128{0, 0, 1 - 1i, 0, 0}, buf)
	})
}

// TestPack_ZeroBlocks allows an empty stream.
func TestPack_ZeroBlocks(t *testing.T) {
	r := mustRemap(t, 5, 6)
	buf, numBlocks, err := Pack([][]complex128{{}, {}}, []int{5, 6}, r, r.OutputChannels())
	require.NoError(t, err)
	assert.Zero(t, numBlocks)
	assert.Empty(t, buf)
}

// TestPack_InvalidInput covers every rejected shape.
func TestPack_InvalidInput(t *testing.T) {
	good := mustRemap(t, 5, 6, 7)
	goodOut := good.OutputChannels()
	rows := func(n, blocks int) [][]complex128 {
		out := make([][]complex128, n)
		for i := range out {
			out[i] = make([]complex128, blocks)
		}
		return out
	}

	tests := []struct {
		name   string
		blocks [][]complex128
		order  []int
		r      remap.ChannelRemapping
		out    int
	}{
		{"empty_remapping", rows(1, 2), []int{5}, remap.ChannelRemapping{NewSamplingFreq: 8}, 5},
		{"order_length_mismatch", rows(2, 2), []int{5, 6}, good, goodOut},
		{"row_count_mismatch", rows(2, 2), []int{5, 6, 7}, good, goodOut},
		{"ragged_rows", [][]complex128{make([]complex128, 2), make([]complex128, 3), make([]complex128, 2)},
			[]int{5, 6, 7}, good, goodOut},
		{"unknown_channel", rows(3, 2), []int{5, 6, 8}, good, goodOut},
		{"duplicate_channel", rows(3, 2), []int{5, 6, 6}, good, goodOut},
		{"too_few_output_columns", rows(3, 2), []int{5, 6, 7}, good, 2},
		{"zero_output_columns", rows(3, 2), []int{5, 6, 7}, good, 0},
		{"column_above_rate", rows(1, 2), []int{5}, remap.ChannelRemapping{
			NewSamplingFreq: 4,
			ChannelMap:      map[int]remap.RemappedChannel{5: {NewChannel: 3}},
		}, 10},
		{"non_positive_rate", rows(1, 2), []int{5}, remap.ChannelRemapping{
			ChannelMap: map[int]remap.RemappedChannel{5: {NewChannel: 0}},
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, n, err := Pack(tt.blocks, tt.order, tt.r, tt.out)
			require.ErrorIs(t, err, ErrInvalidParameter)
			assert.Nil(t, buf)
			assert.Zero(t, n)
		})
	}
}
