package tdr

import (
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/mwaio"
	"github.com/tphakala/go-mwa-tdr/internal/pipeline"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
	"github.com/tphakala/go-mwa-tdr/internal/simdops"
)

// ComputeRemapping folds channels into the smallest band in which they do
// not collide. samplingFreq is usually [SamplingRate].
func ComputeRemapping(samplingFreq int, channels []int) (ChannelRemapping, error) {
	return remap.Compute(samplingFreq, channels)
}

// NewFilterBank wraps a flat tap array in which tap t of channel c is
// taps[t*TapChannels+c].
func NewFilterBank(taps []complex128) (*FilterBank, error) {
	return filter.NewBank(taps, TapChannels)
}

// LoadFilterBank reads an instrument filter file.
func LoadFilterBank(path string) (*FilterBank, error) {
	return mwaio.LoadFilterFile(path, TapChannels)
}

// ProcessSignal reconstructs one antenna input. Row i of blocks carries the
// samples of channel channelOrder[i]; taps is laid out as for
// [NewFilterBank]. The result holds len(blocks[0])*r.NewSamplingFreq
// samples.
func ProcessSignal(blocks [][]complex128, channelOrder []int, taps []complex128, r ChannelRemapping) ([]int16, error) {
	bank, err := NewFilterBank(taps)
	if err != nil {
		return nil, err
	}
	return ProcessSignalWithBank(blocks, channelOrder, bank, r)
}

// ProcessSignalWithBank is like ProcessSignal but reuses a prepared bank.
func ProcessSignalWithBank(blocks [][]complex128, channelOrder []int, bank *FilterBank, r ChannelRemapping) ([]int16, error) {
	p, err := pipeline.New(r, bank)
	if err != nil {
		return nil, err
	}
	return p.Process(blocks, channelOrder)
}

// SIMDInfo describes the SIMD instruction set used by the filter stage.
func SIMDInfo() string {
	return simdops.Info()
}
