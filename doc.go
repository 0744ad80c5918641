// Package tdr reconstructs time-domain voltages from the channelised output
// of the Murchison Widefield Array (MWA).
//
// The array records up to 24 of the 256 coarse frequency channels of its
// 512 MHz sampled band. Rather than synthesising the whole band, the
// selected channels are folded into the smallest band in which none of them
// collide, and a 16-bit time series is synthesised at that reduced rate.
//
// # Quick Start
//
// For a single antenna input:
//
//	r, err := tdr.ComputeRemapping(tdr.SamplingRate, channels)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bank, err := tdr.LoadFilterBank("ipfb_taps.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// blocks[i] holds the samples of channel channels[i]
//	samples, err := tdr.ProcessSignalWithBank(blocks, channels, bank, r)
//
// For many inputs in parallel, build a [Processor] and hand it one
// [InputJob] per antenna input:
//
//	cfg := tdr.DefaultConfig()
//	cfg.EnableParallel = true
//	p, err := tdr.NewProcessor(cfg, r, bank)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	results, err := p.ProcessInputs(ctx, jobs)
//
// # Architecture
//
// Every input passes through four stages:
//
//  1. Pack: each recorded channel is placed in its remapped column, and
//     conjugated when its band was mirrored by the fold.
//  2. Filter: the inverse polyphase filter of the original channel is
//     convolved along time.
//  3. Synthesize: each block's half spectrum is inverse transformed into
//     NewSamplingFreq real samples.
//  4. Quantize: samples are truncated and saturated to int16.
//
// The remapping and filter bank are read-only and shared by every worker.
// Each worker owns its own pipeline.
//
// # Performance
//
// The filter stage uses SIMD dot products from github.com/tphakala/simd when
// the CPU supports them. [SIMDInfo] reports the selected instruction set.
package tdr
