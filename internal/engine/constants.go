package engine

import "github.com/tphakala/go-mwa-tdr/internal/dsperr"

// ErrInvalidParameter is returned when a stage's inputs violate its
// preconditions. No stage produces partial output on error.
var ErrInvalidParameter = dsperr.ErrInvalidParameter

const (
	// half relates a sampling rate to its highest addressable channel.
	half = 2

	// edgeGain compensates a channel that lands on the DC or Nyquist column,
	// where a real inverse transform counts the bin once instead of twice.
	edgeGain = 2

	int16Max = 32767
	int16Min = -32768
)
