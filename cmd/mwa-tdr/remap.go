package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	tdr "github.com/tphakala/go-mwa-tdr"
)

func newRemapCmd() *cobra.Command {
	var (
		rate     int
		channels string
	)

	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Print the channel remapping for a set of coarse channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := parseChannels(channels)
			if err != nil {
				return err
			}
			r, err := tdr.ComputeRemapping(rate, list)
			if err != nil {
				return err
			}
			printRemapping(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.Flags().IntVar(&rate, "rate", tdr.SamplingRate, "sampling rate of the full band in channel units")
	cmd.Flags().StringVarP(&channels, "channels", "c", "", "comma-separated coarse channels, ranges allowed (e.g. 5-9,23)")
	_ = cmd.MarkFlagRequired("channels")
	return cmd
}

func printRemapping(w io.Writer, r tdr.ChannelRemapping) {
	fmt.Fprintf(w, "New sampling frequency: %d (%d output channels)\n", r.NewSamplingFreq, r.OutputChannels())
	for _, ch := range r.SortedChannels() {
		rc := r.ChannelMap[ch]
		suffix := ""
		if rc.Flipped {
			suffix = " (conjugate)"
		}
		fmt.Fprintf(w, "  %3d -> %3d%s\n", ch, rc.NewChannel, suffix)
	}
}
