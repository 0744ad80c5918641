// Package pipeline chains the reconstruction stages for one antenna input:
// pack, inverse polyphase filter, spectral synthesis and quantisation.
package pipeline

import (
	"fmt"

	"github.com/tphakala/go-mwa-tdr/internal/engine"
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

// Stage represents a single processing stage of the pipeline. Each stage
// reads and updates the shared Frame.
type Stage interface {
	// Process runs the stage on f.
	Process(f *Frame) error

	// Type identifies the stage.
	Type() StageType
}

// Frame carries one input's data between stages.
type Frame struct {
	// Blocks holds one row of complex samples per recorded channel.
	Blocks [][]complex128
	// ChannelOrder names the channel of each row of Blocks.
	ChannelOrder []int

	// Spectrum is the packed block-major buffer.
	Spectrum    []complex128
	NumBlocks   int
	NumChannels int

	// Samples holds the synthesised time series.
	Samples []float64

	// Output holds the quantised time series.
	Output []int16
}

// Pipeline reconstructs a 16-bit time series from channelised samples.
//
// The remapping and bank are only read and may be shared between pipelines.
// A Pipeline itself owns a transform plan and must not be used from more
// than one goroutine at a time.
type Pipeline struct {
	remapping remap.ChannelRemapping
	stages    []Stage
}

// New builds the four-stage pipeline for a remapping and synthesis filter.
// The packed band is NewSamplingFreq/2+1 columns wide and every block
// yields NewSamplingFreq samples.
func New(r remap.ChannelRemapping, bank *filter.Bank) (*Pipeline, error) {
	if bank == nil {
		return nil, fmt.Errorf("%w: filter bank is nil", engine.ErrInvalidParameter)
	}
	if r.NewSamplingFreq <= 0 {
		return nil, fmt.Errorf("%w: new sampling frequency must be positive, got %d",
			engine.ErrInvalidParameter, r.NewSamplingFreq)
	}

	synth, err := engine.NewSynthesizer(r.NewSamplingFreq)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		remapping: r,
		stages: []Stage{
			&packStage{remapping: r, outChannels: r.OutputChannels()},
			&filterStage{remapping: r, bank: bank},
			&synthStage{synth: synth},
			quantizeStage{},
		},
	}, nil
}

// Process reconstructs the signal for blocks, where row i carries channel
// channelOrder[i]. The result has NumBlocks*NewSamplingFreq samples. The
// first failing stage aborts the run and nothing is returned.
func (p *Pipeline) Process(blocks [][]complex128, channelOrder []int) ([]int16, error) {
	f := &Frame{Blocks: blocks, ChannelOrder: channelOrder}
	for _, s := range p.stages {
		if err := s.Process(f); err != nil {
			return nil, fmt.Errorf("%s stage: %w", s.Type(), err)
		}
	}
	return f.Output, nil
}

// GetStages returns the pipeline stages in execution order.
func (p *Pipeline) GetStages() []Stage {
	return p.stages
}

// GetRemapping returns the remapping the pipeline was built for.
func (p *Pipeline) GetRemapping() remap.ChannelRemapping {
	return p.remapping
}

// SamplesPerBlock returns the number of output samples per input block.
func (p *Pipeline) SamplesPerBlock() int {
	return p.remapping.NewSamplingFreq
}
