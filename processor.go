package tdr

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tphakala/go-mwa-tdr/internal/observation"
	"github.com/tphakala/go-mwa-tdr/internal/pipeline"
)

// Status is the outcome of one antenna input.
type Status int

const (
	// StatusNotProcessed marks inputs skipped after a cancellation.
	StatusNotProcessed Status = iota
	StatusSuccess
	StatusFailed
	// StatusFlagged marks inputs excluded by the observation metadata.
	StatusFlagged
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "fail"
	case StatusFlagged:
		return "flagged"
	default:
		return "not processed"
	}
}

// InputJob describes one antenna input to reconstruct.
type InputJob struct {
	// ID identifies the input in results and logs.
	ID int

	// Flagged inputs are reported but not processed.
	Flagged bool

	// Fields are attached to every log entry of this input.
	Fields logrus.Fields

	// Load returns one row of samples per channel and the channel of each
	// row. It is called from a worker goroutine.
	Load func() (blocks [][]complex128, channelOrder []int, err error)

	// Store, if set, receives the reconstructed samples. The samples are
	// then not kept in the result.
	Store func(samples []int16) error
}

// InputResult is the outcome of one InputJob.
type InputResult struct {
	ID     int
	Status Status

	// Samples holds the reconstruction when the job has no Store.
	Samples []int16

	// UsedChannels lists, in ascending order, the channels that were
	// reconstructed.
	UsedChannels []int

	Err error
}

// Processor reconstructs many antenna inputs that share one remapping and
// filter bank.
type Processor struct {
	config    Config
	remapping ChannelRemapping
	bank      *FilterBank
	log       logrus.FieldLogger
}

// NewProcessor validates cfg against the remapping and bank.
func NewProcessor(cfg *Config, r ChannelRemapping, bank *FilterBank) (*Processor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: filter bank is nil", ErrInvalidParameter)
	}
	if bank.TapChannels() != cfg.TapChannels {
		return nil, fmt.Errorf("%w: filter bank covers %d channels, expected %d",
			ErrInvalidParameter, bank.TapChannels(), cfg.TapChannels)
	}
	if len(r.ChannelMap) == 0 {
		return nil, fmt.Errorf("%w: channel remapping is empty", ErrInvalidParameter)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, ch := range r.SortedChannels() {
		if ch > cfg.SamplingFreq/2 {
			return nil, fmt.Errorf("%w: channel %d is above the band of rate %d",
				ErrInvalidParameter, ch, cfg.SamplingFreq)
		}
		if err := bank.CheckChannel(ch); err != nil {
			return nil, err
		}
	}

	return &Processor{
		config:    *cfg,
		remapping: r,
		bank:      bank,
		log:       cfg.logger(),
	}, nil
}

// Remapping returns the shared channel remapping.
func (p *Processor) Remapping() ChannelRemapping {
	return p.remapping
}

// ProcessInputs reconstructs every job and returns one result per job in
// the same order.
//
// Jobs are split into contiguous ranges, one per worker. Unless
// IgnoreErrors is set, the first failure stops all workers and is returned
// together with the partial results. A cancelled ctx stops the workers
// between inputs.
func (p *Processor) ProcessInputs(ctx context.Context, jobs []InputJob) ([]InputResult, error) {
	results := make([]InputResult, len(jobs))
	for i, job := range jobs {
		results[i].ID = job.ID
	}
	if len(jobs) == 0 {
		return results, nil
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ranges := observation.AssignRanges(len(jobs), p.config.workerCount(len(jobs)))
	p.log.WithFields(logrus.Fields{
		"inputs":  len(jobs),
		"workers": len(ranges),
		"rate":    p.remapping.NewSamplingFreq,
	}).Info("processing antenna inputs")

	var wg sync.WaitGroup
	errChan := make(chan error, len(ranges))

	for _, rng := range ranges {
		if rng.Len() == 0 {
			continue
		}
		wg.Add(1)
		go func(rng observation.Range) {
			defer wg.Done()
			if err := p.runRange(workCtx, jobs, results, rng); err != nil {
				errChan <- err
				cancel()
			}
		}(rng)
	}

	wg.Wait()
	close(errChan)

	// Check for errors
	for err := range errChan {
		if err != nil {
			return results, err
		}
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// runRange processes jobs[rng.Begin:rng.End] with a pipeline owned by this
// worker. It returns an error only when processing must stop.
func (p *Processor) runRange(ctx context.Context, jobs []InputJob, results []InputResult, rng observation.Range) error {
	pl, err := pipeline.New(p.remapping, p.bank)
	if err != nil {
		return err
	}

	for i := rng.Begin; i < rng.End; i++ {
		if ctx.Err() != nil {
			return nil
		}

		job := jobs[i]
		log := p.log.WithField("input", job.ID).WithFields(job.Fields)
		if job.Flagged {
			results[i].Status = StatusFlagged
			log.Debug("skipping flagged input")
			continue
		}

		if err := p.runJob(pl, job, &results[i]); err != nil {
			results[i].Status = StatusFailed
			results[i].Err = err
			log.WithError(err).Warn("input failed")
			if !p.config.IgnoreErrors {
				return fmt.Errorf("input %d: %w", job.ID, err)
			}
			continue
		}
		results[i].Status = StatusSuccess
		log.WithField("channels", results[i].UsedChannels).Debug("input reconstructed")
	}
	return nil
}

func (p *Processor) runJob(pl *pipeline.Pipeline, job InputJob, res *InputResult) error {
	if job.Load == nil {
		return fmt.Errorf("%w: input %d has no loader", ErrInvalidParameter, job.ID)
	}
	blocks, order, err := job.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	samples, err := pl.Process(blocks, order)
	if err != nil {
		return err
	}

	if job.Store != nil {
		if err := job.Store(samples); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	} else {
		res.Samples = samples
	}

	used := slices.Clone(order)
	slices.Sort(used)
	res.UsedChannels = used
	return nil
}
