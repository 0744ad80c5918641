// Package observation describes an MWA voltage capture: its identifying
// GPS times, the recorded coarse channels and the antenna inputs, and
// splits the inputs into work ranges.
package observation

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalidObservation is returned for observation metadata that cannot be
// processed.
var ErrInvalidObservation = errors.New("invalid observation")

const (
	// SubobservationSeconds is the length of one voltage capture. GPS times
	// of observations and captures fall on multiples of it.
	SubobservationSeconds = 8

	// SamplingRate is the critically sampled rate of the coarse filter
	// bank, in channel units.
	SamplingRate = 512

	// CoarseChannelBandwidthMHz is the width of one coarse channel.
	CoarseChannelBandwidthMHz = 1.28
)

// Signal chain names.
const (
	ChainX = "X"
	ChainY = "Y"
)

// ValidateTimes checks an observation ID and capture start time, both GPS
// seconds.
func ValidateTimes(observationID, startTime int64) error {
	if observationID <= 0 || observationID%SubobservationSeconds != 0 {
		return fmt.Errorf("%w: observation ID %d must be a positive multiple of %d",
			ErrInvalidObservation, observationID, SubobservationSeconds)
	}
	if startTime%SubobservationSeconds != 0 {
		return fmt.Errorf("%w: start time %d must be a multiple of %d",
			ErrInvalidObservation, startTime, SubobservationSeconds)
	}
	if startTime < observationID {
		return fmt.Errorf("%w: start time %d precedes observation %d",
			ErrInvalidObservation, startTime, observationID)
	}
	return nil
}

// AntennaInput is one signal chain of one tile.
type AntennaInput struct {
	Tile    int    `yaml:"tile"`
	Chain   string `yaml:"chain"`
	Flagged bool   `yaml:"flagged"`
}

// String returns the input as it appears in reports, e.g. "Tile 11X".
func (a AntennaInput) String() string {
	return fmt.Sprintf("Tile %d%s", a.Tile, a.Chain)
}

// Metadata describes one voltage capture to reconstruct.
type Metadata struct {
	ObservationID int64          `yaml:"obsid"`
	StartTime     int64          `yaml:"start"`
	Channels      []int          `yaml:"channels"`
	Inputs        []AntennaInput `yaml:"inputs"`
}

// ParseMetadata decodes and validates YAML metadata.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadMetadata reads metadata from a YAML file.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return ParseMetadata(data)
}

// Validate checks times, channels and inputs.
func (m *Metadata) Validate() error {
	if err := ValidateTimes(m.ObservationID, m.StartTime); err != nil {
		return err
	}
	if len(m.Channels) == 0 {
		return fmt.Errorf("%w: no frequency channels", ErrInvalidObservation)
	}

	sorted := slices.Clone(m.Channels)
	slices.Sort(sorted)
	for i, c := range sorted {
		if c < 0 || c > SamplingRate/2 {
			return fmt.Errorf("%w: channel %d outside [0, %d]", ErrInvalidObservation, c, SamplingRate/2)
		}
		if i > 0 && sorted[i-1] == c {
			return fmt.Errorf("%w: channel %d listed twice", ErrInvalidObservation, c)
		}
	}

	if len(m.Inputs) == 0 {
		return fmt.Errorf("%w: no antenna inputs", ErrInvalidObservation)
	}
	for i, in := range m.Inputs {
		if in.Chain != ChainX && in.Chain != ChainY {
			return fmt.Errorf("%w: input %d has signal chain %q, expected X or Y", ErrInvalidObservation, i, in.Chain)
		}
	}
	return nil
}

// Range is a half-open span [Begin, End) of antenna input indices.
type Range struct {
	Begin int
	End   int
}

// Len returns the number of inputs in the range.
func (r Range) Len() int {
	return r.End - r.Begin
}

// AssignRanges splits numInputs inputs into numWorkers contiguous ranges
// whose sizes differ by at most one, larger ranges first. Workers beyond
// numInputs receive empty ranges.
func AssignRanges(numInputs, numWorkers int) []Range {
	numWorkers = max(numWorkers, 1)
	numInputs = max(numInputs, 0)

	ranges := make([]Range, numWorkers)
	base := numInputs / numWorkers
	extra := numInputs % numWorkers
	begin := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Begin: begin, End: begin + size}
		begin += size
	}
	return ranges
}
