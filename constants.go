package tdr

import "github.com/tphakala/go-mwa-tdr/internal/observation"

// Instrument constants.
const (
	// SamplingRate is the number of coarse channels across the sampled band
	// counted as a real sampling rate: 256 channels fill half of it.
	SamplingRate = observation.SamplingRate

	// TapChannels is the number of channels an instrument filter file holds
	// taps for.
	TapChannels = 256

	// CoarseChannelBandwidthMHz is the width of one coarse channel.
	CoarseChannelBandwidthMHz = observation.CoarseChannelBandwidthMHz
)

// Processing limits
const (
	maxWorkers = 1024
)
