package pipeline

import (
	"github.com/tphakala/go-mwa-tdr/internal/engine"
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

// StageType identifies the type of processing stage.
type StageType int

const (
	// StagePack places recorded channels into the remapped band.
	StagePack StageType = iota

	// StageFilter applies the inverse polyphase filter along time.
	StageFilter

	// StageSynthesize inverts each block into real samples.
	StageSynthesize

	// StageQuantize converts samples to int16.
	StageQuantize
)

// String returns the stage name.
func (t StageType) String() string {
	switch t {
	case StagePack:
		return "pack"
	case StageFilter:
		return "filter"
	case StageSynthesize:
		return "synthesize"
	case StageQuantize:
		return "quantize"
	default:
		return "unknown"
	}
}

type packStage struct {
	remapping   remap.ChannelRemapping
	outChannels int
}

func (s *packStage) Type() StageType { return StagePack }

func (s *packStage) Process(f *Frame) error {
	buf, numBlocks, err := engine.Pack(f.Blocks, f.ChannelOrder, s.remapping, s.outChannels)
	if err != nil {
		return err
	}
	f.Spectrum = buf
	f.NumBlocks = numBlocks
	f.NumChannels = s.outChannels
	return nil
}

type filterStage struct {
	remapping remap.ChannelRemapping
	bank      *filter.Bank
}

func (s *filterStage) Type() StageType { return StageFilter }

func (s *filterStage) Process(f *Frame) error {
	return engine.ApplyFilter(f.Spectrum, f.NumBlocks, f.NumChannels, s.bank, s.remapping)
}

type synthStage struct {
	synth *engine.Synthesizer
}

func (s *synthStage) Type() StageType { return StageSynthesize }

func (s *synthStage) Process(f *Frame) error {
	samples, err := s.synth.Synthesize(f.Spectrum, f.NumBlocks, f.NumChannels)
	if err != nil {
		return err
	}
	f.Samples = samples
	f.Spectrum = nil
	return nil
}

type quantizeStage struct{}

func (quantizeStage) Type() StageType { return StageQuantize }

func (quantizeStage) Process(f *Frame) error {
	f.Output = engine.Quantize(f.Samples)
	f.Samples = nil
	return nil
}
