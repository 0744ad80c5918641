package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-mwa-tdr/internal/engine"
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
	"github.com/tphakala/go-mwa-tdr/internal/testutil"
)

const testSamplingFreq = 512

// passThroughBank is a single-tap unit-gain bank over all tap channels.
func passThroughBank(t *testing.T) *filter.Bank {
	t.Helper()
	coeffs := make([]float64, filter.DefaultTapChannels)
	for i := range coeffs {
		coeffs[i] = 1
	}
	bank, err := filter.NewRealBank(coeffs, filter.DefaultTapChannels)
	require.NoError(t, err)
	return bank
}

// identityRemapping maps channels 0..n-1 onto themselves at rate 2n+1.
func identityRemapping(n int) (remap.ChannelRemapping, []int) {
	r := remap.ChannelRemapping{NewSamplingFreq: 2*n + 1, ChannelMap: make(map[int]remap.RemappedChannel, n)}
	order := make([]int, n)
	for i := range n {
		order[i] = i
		r.ChannelMap[i] = remap.RemappedChannel{NewChannel: i}
	}
	return r, order
}

func TestNew_Stages(t *testing.T) {
	r, _ := identityRemapping(3)
	p, err := New(r, passThroughBank(t))
	require.NoError(t, err)

	stages := p.GetStages()
	require.Len(t, stages, 4)
	expected := []StageType{StagePack, StageFilter, StageSynthesize, StageQuantize}
	for i, s := range stages {
		assert.Equal(t, expected[i], s.Type())
	}
	assert.Equal(t, "synthesize", StageSynthesize.String())
	assert.Equal(t, 7, p.SamplesPerBlock())
	assert.Equal(t, r, p.GetRemapping())
}

func TestNew_InvalidInput(t *testing.T) {
	r, _ := identityRemapping(3)

	_, err := New(r, nil)
	require.ErrorIs(t, err, engine.ErrInvalidParameter)

	_, err = New(remap.ChannelRemapping{}, passThroughBank(t))
	require.ErrorIs(t, err, engine.ErrInvalidParameter)
}

// TestProcess_ZeroSignal checks that silence stays silent at full width.
func TestProcess_ZeroSignal(t *testing.T) {
	const numBlocks = 50

	r, order := identityRemapping(filter.DefaultTapChannels)
	blocks := testutil.ConstantBlocks(len(order), numBlocks, 0)

	for _, tc := range []struct {
		name  string
		value float64
	}{
		{"unit_taps", 1},
		{"zero_taps", 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			coeffs := make([]float64, filter.DefaultTapChannels)
			for i := range coeffs {
				coeffs[i] = tc.value
			}
			bank, err := filter.NewRealBank(coeffs, filter.DefaultTapChannels)
			require.NoError(t, err)

			p, err := New(r, bank)
			require.NoError(t, err)
			out, err := p.Process(blocks, order)
			require.NoError(t, err)
			assert.Equal(t, make([]int16, 25650), out)
		})
	}
}

// TestProcess_SparseSelection reconstructs constant tones in eleven
// channels folded into rate 46.
func TestProcess_SparseSelection(t *testing.T) {
	const numBlocks = 32

	channels := []int{4, 7, 10, 23, 24, 25, 66, 87, 90, 92, 150}
	values := []float64{20, 75, 42, 21, 60, 23, 42, 11, 48, 32, 88}

	r, err := remap.Compute(testSamplingFreq, channels)
	require.NoError(t, err)
	require.Equal(t, 46, r.NewSamplingFreq)

	blocks := make([][]complex128, len(channels))
	for i, v := range values {
		blocks[i] = testutil.ConstantBlocks(1, numBlocks, complex(v, 0))[0]
	}

	p, err := New(r, passThroughBank(t))
	require.NoError(t, err)
	out, err := p.Process(blocks, channels)
	require.NoError(t, err)

	pattern := []int16{
		924, 17, 121, -251, 335, -57, 0, 122, 172, -78, -248, 13, 129, 11, 95, 50,
		-102, -309, 67, 482, 203, 50, -17, 404, -17, 50, 203, 482, 67, -309, -102, 50,
		95, 11, 129, 13, -248, -78, 172, 122, 0, -57, 335, -251, 121, 17,
	}
	testutil.AssertInt16Within(t, testutil.Repeat(pattern, numBlocks), out, 1)
}

// TestProcess_Deterministic runs the same input twice.
func TestProcess_Deterministic(t *testing.T) {
	channels := []int{3, 17, 51, 128, 200}
	r, err := remap.Compute(testSamplingFreq, channels)
	require.NoError(t, err)

	bank, err := filter.Design(filter.DesignParams{
		Length: 8, TapChannels: filter.DefaultTapChannels, Cutoff: 0.45, Beta: 6,
	})
	require.NoError(t, err)

	blocks := make([][]complex128, len(channels))
	for i := range blocks {
		blocks[i] = make([]complex128, 64)
		for b := range blocks[i] {
			blocks[i][b] = complex(float64((b*7+i*13)%50-25), float64((b*3+i)%40-20))
		}
	}

	p1, err := New(r, bank)
	require.NoError(t, err)
	p2, err := New(r, bank)
	require.NoError(t, err)

	a, err := p1.Process(blocks, channels)
	require.NoError(t, err)
	b, err := p2.Process(blocks, channels)
	require.NoError(t, err)
	c, err := p1.Process(blocks, channels)
	require.NoError(t, err)

	assert.Len(t, a, 64*r.NewSamplingFreq)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

// TestProcess_InvalidInput checks that failures carry the stage name and
// return no samples.
func TestProcess_InvalidInput(t *testing.T) {
	r, order := identityRemapping(3)

	longBank, err := filter.NewRealBank(make([]float64, 10*filter.DefaultTapChannels), filter.DefaultTapChannels)
	require.NoError(t, err)

	tests := []struct {
		name    string
		r       remap.ChannelRemapping
		bank    *filter.Bank
		blocks  [][]complex128
		order   []int
		inError string
	}{
		{
			name:    "empty_remapping",
			r:       remap.ChannelRemapping{NewSamplingFreq: 8, ChannelMap: map[int]remap.RemappedChannel{}},
			bank:    passThroughBank(t),
			blocks:  testutil.ConstantBlocks(3, 4, 1),
			order:   order,
			inError: "pack stage",
		},
		{
			name:    "mismatched_order",
			r:       r,
			bank:    passThroughBank(t),
			blocks:  testutil.ConstantBlocks(3, 4, 1),
			order:   []int{0, 1},
			inError: "pack stage",
		},
		{
			name:    "ragged_blocks",
			r:       r,
			bank:    passThroughBank(t),
			blocks:  [][]complex128{make([]complex128, 4), make([]complex128, 5), make([]complex128, 4)},
			order:   order,
			inError: "pack stage",
		},
		{
			name:    "filter_longer_than_stream",
			r:       r,
			bank:    longBank,
			blocks:  testutil.ConstantBlocks(3, 4, 1),
			order:   order,
			inError: "filter stage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.r, tt.bank)
			require.NoError(t, err)

			out, err := p.Process(tt.blocks, tt.order)
			require.ErrorIs(t, err, engine.ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.inError)
			assert.Nil(t, out)
		})
	}
}

func BenchmarkProcess(b *testing.B) {
	const numBlocks = 20000
	channels := []int{4, 7, 10, 23, 24, 25, 66, 87, 90, 92, 150, 170, 199, 230}
	r, err := remap.Compute(testSamplingFreq, channels)
	if err != nil {
		b.Fatal(err)
	}
	bank, err := filter.Design(filter.DesignParams{Length: 12, TapChannels: filter.DefaultTapChannels, Cutoff: 0.5, Beta: 5})
	if err != nil {
		b.Fatal(err)
	}
	p, err := New(r, bank)
	if err != nil {
		b.Fatal(err)
	}
	blocks := make([][]complex128, len(channels))
	for i := range blocks {
		blocks[i] = make([]complex128, numBlocks)
		for j := range blocks[i] {
			blocks[i][j] = complex(float64(j%17), float64(i))
		}
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := p.Process(blocks, channels); err != nil {
			b.Fatal(err)
		}
	}
}
