// Command mwa-tdr reconstructs time-domain voltages from MWA coarse channel
// captures.
//
// Usage:
//
//	mwa-tdr remap --channels 5,6,7,8,9
//	mwa-tdr gen-filter --length 12 --beta 5 -o ipfb.bin
//	mwa-tdr analyze-filter ipfb.bin
//	mwa-tdr process --metadata obs.yaml --filter ipfb.bin --input subfiles/ --output out/
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "mwa-tdr",
	Short: "Reconstruct MWA time-domain voltages from coarse channels",
	Long: `mwa-tdr folds the recorded coarse channels of an MWA voltage capture into
the smallest collision-free band, applies the inverse polyphase filter, and
synthesises one 16-bit time series per antenna input.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(newRemapCmd(), newGenFilterCmd(), newAnalyzeFilterCmd(), newProcessCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
