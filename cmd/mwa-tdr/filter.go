package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tdr "github.com/tphakala/go-mwa-tdr"
	"github.com/tphakala/go-mwa-tdr/internal/filter"
	"github.com/tphakala/go-mwa-tdr/internal/mwaio"
)

const (
	defaultFilterLength = 12
	defaultFilterBeta   = 5.0
	defaultFilterCutoff = 0.5

	// Display limits
	responsePoints   = 512
	responseRowsStep = 64
)

func newGenFilterCmd() *cobra.Command {
	params := filter.DesignParams{TapChannels: tdr.TapChannels}
	var output string

	cmd := &cobra.Command{
		Use:   "gen-filter",
		Short: "Design a Kaiser windowed-sinc inverse filter and write it as a filter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := filter.Design(params)
			if err != nil {
				return err
			}
			if err := mwaio.SaveFilterFile(output, bank); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"length": bank.Length(),
				"beta":   params.Beta,
				"cutoff": params.Cutoff,
			}).Infof("wrote %s", output)
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Length, "length", defaultFilterLength, "taps per channel (1-255)")
	cmd.Flags().Float64Var(&params.Beta, "beta", defaultFilterBeta, "Kaiser window beta; 0 derives it from --attenuation")
	cmd.Flags().Float64Var(&params.Attenuation, "attenuation", 0, "stopband attenuation in dB when --beta is 0")
	cmd.Flags().Float64Var(&params.Cutoff, "cutoff", defaultFilterCutoff, "normalised cutoff in (0, 0.5]")
	cmd.Flags().StringVarP(&output, "output", "o", "", "filter file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newAnalyzeFilterCmd() *cobra.Command {
	var channel int

	cmd := &cobra.Command{
		Use:   "analyze-filter FILE",
		Short: "Print the DC gain and magnitude response of a filter file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := mwaio.LoadFilterFile(args[0], tdr.TapChannels)
			if err != nil {
				return err
			}
			if err := bank.CheckChannel(channel); err != nil {
				return err
			}
			analyzeFilter(cmd.OutOrStdout(), bank, channel)
			return nil
		},
	}

	cmd.Flags().IntVar(&channel, "channel", 0, "channel whose response is printed")
	return cmd
}

func analyzeFilter(w io.Writer, bank *filter.Bank, channel int) {
	fmt.Fprintln(w, "=== Filter bank ===")
	fmt.Fprintf(w, "  Taps per channel: %d\n", bank.Length())
	fmt.Fprintf(w, "  Channels: %d\n", bank.TapChannels())
	fmt.Fprintf(w, "  Real: %v\n\n", bank.IsReal())

	var minDC, maxDC float64
	for ch := range bank.TapChannels() {
		var dc complex128
		for _, h := range bank.Kernel(ch) {
			dc += h
		}
		g := real(dc)
		if ch == 0 || g < minDC {
			minDC = g
		}
		if ch == 0 || g > maxDC {
			maxDC = g
		}
	}
	fmt.Fprintf(w, "DC gain across channels: min %.10f, max %.10f\n\n", minDC, maxDC)

	resp := bank.FrequencyResponse(channel, responsePoints)
	fmt.Fprintf(w, "Magnitude response of channel %d:\n", channel)
	for i := 0; i < len(resp.Frequencies); i += responseRowsStep {
		fmt.Fprintf(w, "  f=%.4f  %8.2f dB\n", resp.Frequencies[i], filter.MagnitudeDB(resp.Magnitude[i]))
	}
}
