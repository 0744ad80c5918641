package tdr

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-mwa-tdr/internal/dsperr"
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

// ChannelRemapping maps each recorded channel onto the reduced band.
type ChannelRemapping = remap.ChannelRemapping

// RemappedChannel is the destination of one recorded channel.
type RemappedChannel = remap.RemappedChannel

// FilterBank holds the inverse polyphase filter taps of every channel.
type FilterBank = filter.Bank

// Common errors returned by the reconstruction.
var (
	// ErrInvalidParameter indicates inputs that violate a stage's
	// preconditions.
	ErrInvalidParameter = dsperr.ErrInvalidParameter

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid reconstruction configuration")
)

// Config holds batch processing configuration.
type Config struct {
	// SamplingFreq is the sampling rate of the full band in coarse channel
	// units. Remapped channels must lie within SamplingFreq/2.
	SamplingFreq int

	// TapChannels is the number of channels the filter bank must cover.
	TapChannels int

	// Workers is the number of concurrent workers used when EnableParallel
	// is set. Zero selects runtime.NumCPU().
	Workers int

	// EnableParallel processes antenna inputs concurrently.
	EnableParallel bool

	// IgnoreErrors keeps processing the remaining inputs after one fails.
	// When false, the first failure cancels all outstanding work.
	IgnoreErrors bool

	// Logger receives per-input progress. Nil discards it.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration for MWA coarse channel data.
func DefaultConfig() *Config {
	return &Config{
		SamplingFreq: SamplingRate,
		TapChannels:  TapChannels,
		Workers:      runtime.NumCPU(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SamplingFreq <= 0 {
		return fmt.Errorf("%w: sampling frequency must be positive, got %d", ErrInvalidConfig, c.SamplingFreq)
	}

	if c.TapChannels < 1 {
		return fmt.Errorf("%w: tap channels must be at least 1", ErrInvalidConfig)
	}

	if c.Workers < 0 || c.Workers > maxWorkers {
		return fmt.Errorf("%w: workers must be 0-%d, got %d", ErrInvalidConfig, maxWorkers, c.Workers)
	}

	return nil
}

// workerCount returns the number of workers to start for numJobs inputs.
func (c *Config) workerCount(numJobs int) int {
	if !c.EnableParallel {
		return 1
	}
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, numJobs))
}

func (c *Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
