package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	tdr "github.com/tphakala/go-mwa-tdr"
	"github.com/tphakala/go-mwa-tdr/internal/mwaio"
	"github.com/tphakala/go-mwa-tdr/internal/observation"
)

// parseChannels parses a comma-separated list of channels and inclusive
// ranges such as "5-9,23".
func parseChannels(s string) ([]int, error) {
	var channels []int
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid channel %q", part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || last < first {
				return nil, fmt.Errorf("invalid channel range %q", part)
			}
		}
		for c := first; c <= last; c++ {
			channels = append(channels, c)
		}
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channels in %q", s)
	}
	return channels, nil
}

// subfileSet holds one open subfile per remapped channel.
type subfileSet struct {
	order    []int
	subfiles []*mwaio.Subfile
}

// openSubfiles opens the capture of every channel of r from dir. All
// subfiles must describe the same number of inputs and samples.
func openSubfiles(dir string, meta *observation.Metadata, r tdr.ChannelRemapping) (*subfileSet, error) {
	set := &subfileSet{order: r.SortedChannels()}
	for _, ch := range set.order {
		path := filepath.Join(dir, mwaio.SubfileName(meta.ObservationID, meta.StartTime, ch))
		s, err := mwaio.OpenSubfile(path)
		if err != nil {
			set.Close()
			return nil, err
		}
		set.subfiles = append(set.subfiles, s)

		first := set.subfiles[0].Header
		if s.Header.NumInputs != first.NumInputs || s.Header.NumTimeSamples != first.NumTimeSamples {
			set.Close()
			return nil, fmt.Errorf("%s: %d inputs x %d samples does not match channel %d",
				path, s.Header.NumInputs, s.Header.NumTimeSamples, set.order[0])
		}
		if s.Header.NumInputs < len(meta.Inputs) {
			set.Close()
			return nil, fmt.Errorf("%s: holds %d inputs, metadata lists %d",
				path, s.Header.NumInputs, len(meta.Inputs))
		}
	}
	return set, nil
}

// load reads every channel of one antenna input.
func (s *subfileSet) load(input int) ([][]complex128, []int, error) {
	blocks := make([][]complex128, len(s.subfiles))
	for i, sub := range s.subfiles {
		samples, err := sub.Input(input)
		if err != nil {
			return nil, nil, fmt.Errorf("channel %d: %w", s.order[i], err)
		}
		blocks[i] = samples
	}
	return blocks, s.order, nil
}

// Close closes every open subfile.
func (s *subfileSet) Close() {
	for _, sub := range s.subfiles {
		_ = sub.Close()
	}
}

// outputWriter stores reconstructed signals of one capture.
type outputWriter struct {
	dir        string
	meta       *observation.Metadata
	wav        bool
	sampleRate int
}

func newOutputWriter(dir string, meta *observation.Metadata, r tdr.ChannelRemapping, wav bool) *outputWriter {
	const hzPerMHz = 1e6
	rate := tdr.CoarseChannelBandwidthMHz * hzPerMHz * float64(r.NewSamplingFreq)
	return &outputWriter{dir: dir, meta: meta, wav: wav, sampleRate: int(math.Round(rate))}
}

func (o *outputWriter) store(input observation.AntennaInput, samples []int16) error {
	name := mwaio.SignalFileName(o.meta.ObservationID, o.meta.StartTime, input.Tile, input.Chain)
	path := filepath.Join(o.dir, name)
	if err := mwaio.SaveSignal(path, samples); err != nil {
		return err
	}
	if o.wav {
		wavPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
		if err := mwaio.SaveWAV(wavPath, samples, o.sampleRate); err != nil {
			return err
		}
	}
	return nil
}

// buildJobs creates one job per metadata input.
func buildJobs(meta *observation.Metadata, set *subfileSet, out *outputWriter) []tdr.InputJob {
	jobs := make([]tdr.InputJob, len(meta.Inputs))
	for i, in := range meta.Inputs {
		jobs[i] = tdr.InputJob{
			ID:      i,
			Flagged: in.Flagged,
			Fields:  logrus.Fields{"tile": in.Tile, "chain": in.Chain},
			Load: func() ([][]complex128, []int, error) {
				return set.load(i)
			},
			Store: func(samples []int16) error {
				return out.store(in, samples)
			},
		}
	}
	return jobs
}

// buildReport converts processing results into the observation log.
func buildReport(meta *observation.Metadata, r tdr.ChannelRemapping, results []tdr.InputResult) mwaio.Report {
	rep := mwaio.Report{
		ObservationID: meta.ObservationID,
		StartTime:     meta.StartTime,
		Remapping:     r,
		Outcomes:      make([]mwaio.InputOutcome, len(results)),
	}
	for i, res := range results {
		rep.Outcomes[i] = mwaio.InputOutcome{
			Index:        res.ID,
			Input:        meta.Inputs[res.ID],
			Success:      res.Status == tdr.StatusSuccess,
			UsedChannels: res.UsedChannels,
		}
	}
	return rep
}
