package mwaio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tphakala/go-mwa-tdr/internal/observation"
	"github.com/tphakala/go-mwa-tdr/internal/remap"
)

// InputOutcome records what happened to one antenna input.
type InputOutcome struct {
	Index   int
	Input   observation.AntennaInput
	Success bool
	// UsedChannels lists the original channel numbers that went into the
	// signal.
	UsedChannels []int
}

// Report is the content of an observation log.
type Report struct {
	ObservationID int64
	StartTime     int64
	Remapping     remap.ChannelRemapping
	Outcomes      []InputOutcome
}

// SampleRateMHz returns the reconstructed sample rate.
func (r Report) SampleRateMHz() float64 {
	return observation.CoarseChannelBandwidthMHz * float64(r.Remapping.NewSamplingFreq)
}

// SamplePeriodNs returns the time between reconstructed samples.
func (r Report) SamplePeriodNs() float64 {
	const nsPerUs = 1000.0
	return nsPerUs / r.SampleRateMHz()
}

// WriteReport writes the four-section observation log.
func WriteReport(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "OBSERVATION DETAILS")
	fmt.Fprintf(bw, "Observation ID: %d\n", rep.ObservationID)
	fmt.Fprintf(bw, "GPS start time: %d\n", rep.StartTime)
	fmt.Fprintf(bw, "GPS stop time:  %d\n\n", rep.StartTime+observation.SubobservationSeconds)

	fmt.Fprintln(bw, "SIGNAL PROCESSING DETAILS")
	fmt.Fprintf(bw, "Output sample rate: %s MHz\n", formatMilli(rep.SampleRateMHz()))
	fmt.Fprintf(bw, "Output sampling period: %s ns\n\n", formatMilli(rep.SamplePeriodNs()))

	fmt.Fprintln(bw, "FREQUENCY CHANNELS")
	for _, ch := range rep.Remapping.SortedChannels() {
		rc := rep.Remapping.ChannelMap[ch]
		fmt.Fprintf(bw, "Channel %d mapped to %d", ch, rc.NewChannel)
		if rc.Flipped {
			fmt.Fprint(bw, " (conjugate)")
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "ANTENNA INPUT PROCESSING RESULTS")
	outcomes := slices.Clone(rep.Outcomes)
	slices.SortFunc(outcomes, func(a, b InputOutcome) int { return a.Index - b.Index })
	for _, o := range outcomes {
		fmt.Fprintf(bw, "(#%d) %s: ", o.Index, o.Input)
		switch {
		case o.Input.Flagged:
			fmt.Fprintln(bw, "not processed (flagged)")
			fmt.Fprint(bw, "-Used channels: N/A")
		case o.Success:
			fmt.Fprintln(bw, "success")
			fmt.Fprintf(bw, "-Used channels: %s", joinChannels(o.UsedChannels))
		default:
			fmt.Fprintln(bw, "fail")
			fmt.Fprint(bw, "-Used channels: N/A")
		}
		fmt.Fprint(bw, "\n\n")
	}

	return errors.Wrap(bw.Flush(), "write report")
}

// SaveReport writes the observation log into dir under its standard name
// and returns the file path.
func SaveReport(dir string, rep Report) (string, error) {
	path := filepath.Join(dir, ReportFileName(rep.ObservationID, rep.StartTime))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create report %s", path)
	}
	if err := WriteReport(f, rep); err != nil {
		f.Close()
		return "", err
	}
	return path, errors.Wrapf(f.Close(), "close report %s", path)
}

// formatMilli rounds to three decimals and drops trailing zeros.
func formatMilli(v float64) string {
	const scale = 1000
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}

func joinChannels(channels []int) string {
	sorted := slices.Clone(channels)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}
