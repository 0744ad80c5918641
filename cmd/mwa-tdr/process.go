package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tdr "github.com/tphakala/go-mwa-tdr"
	"github.com/tphakala/go-mwa-tdr/internal/mwaio"
	"github.com/tphakala/go-mwa-tdr/internal/observation"
)

// processOptions holds the flags of the process command.
type processOptions struct {
	metadata     string
	filter       string
	input        string
	output       string
	workers      int
	ignoreErrors bool
	wav          bool
}

func newProcessCmd() *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Reconstruct every antenna input of a voltage capture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd.Context(), opts, log)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.metadata, "metadata", "m", "", "observation metadata (YAML)")
	f.StringVarP(&opts.filter, "filter", "f", "", "inverse polyphase filter file")
	f.StringVarP(&opts.input, "input", "i", ".", "directory holding the subfiles")
	f.StringVarP(&opts.output, "output", "o", ".", "directory for signal files and the log")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent workers (0 = number of CPUs, 1 = sequential)")
	f.BoolVar(&opts.ignoreErrors, "ignore-errors", false, "keep going when an input fails")
	f.BoolVar(&opts.wav, "wav", false, "also write each signal as a WAV file")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("filter")
	return cmd
}

func runProcess(ctx context.Context, opts processOptions, logger logrus.FieldLogger) error {
	meta, err := observation.LoadMetadata(opts.metadata)
	if err != nil {
		return err
	}
	bank, err := tdr.LoadFilterBank(opts.filter)
	if err != nil {
		return err
	}
	r, err := tdr.ComputeRemapping(tdr.SamplingRate, meta.Channels)
	if err != nil {
		return err
	}

	logger = logger.WithField("obsid", meta.ObservationID)
	logger.WithFields(logrus.Fields{
		"rate":     r.NewSamplingFreq,
		"channels": len(r.ChannelMap),
		"inputs":   len(meta.Inputs),
	}).Info("computed channel remapping")

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	set, err := openSubfiles(opts.input, meta, r)
	if err != nil {
		return err
	}
	defer set.Close()

	cfg := tdr.DefaultConfig()
	cfg.Workers = opts.workers
	cfg.EnableParallel = opts.workers != 1
	cfg.IgnoreErrors = opts.ignoreErrors
	cfg.Logger = logger

	p, err := tdr.NewProcessor(cfg, r, bank)
	if err != nil {
		return err
	}

	out := newOutputWriter(opts.output, meta, r, opts.wav)
	results, procErr := p.ProcessInputs(ctx, buildJobs(meta, set, out))

	// The log is written even when processing stopped early.
	path, err := mwaio.SaveReport(opts.output, buildReport(meta, r, results))
	if err != nil {
		return err
	}
	logger.Infof("wrote %s", path)

	if procErr != nil {
		return procErr
	}

	var failed int
	for _, res := range results {
		if res.Status == tdr.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		logger.Warnf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}
