// Package mwaio reads and writes the files of a reconstruction run: inverse
// polyphase filter files, voltage capture subfiles, reconstructed signal
// files and the observation log.
package mwaio

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidFormat is returned when a file does not match its expected
// layout.
var ErrInvalidFormat = errors.New("invalid file format")

const (
	bytesPerFloat32 = 4
	bytesPerInt16   = 2
	bytesPerSample  = 2 // int8 real + int8 imaginary
)

// SubfileName returns the capture file name for one coarse channel.
func SubfileName(observationID, startTime int64, channel int) string {
	return fmt.Sprintf("%d_%d_%d.sub", observationID, startTime, channel)
}

// SignalFileName returns the reconstructed signal file name of one input.
func SignalFileName(observationID, startTime int64, tile int, chain string) string {
	return fmt.Sprintf("%d_%d_%d_%s.bin", observationID, startTime, tile, chain)
}

// ReportFileName returns the observation log file name.
func ReportFileName(observationID, startTime int64) string {
	return fmt.Sprintf("%d_%d_outputlog.txt", observationID, startTime)
}
