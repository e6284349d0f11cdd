package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/taxon/internal/metrics"
)

// Batches splits reqs into consecutive chunks of at most size items.
func Batches(reqs []Request, size int) [][]Request {
	if size < 1 {
		size = 1
	}
	out := make([][]Request, 0, (len(reqs)+size-1)/size)
	for i := 0; i < len(reqs); i += size {
		out = append(out, reqs[i:min(i+size, len(reqs))])
	}
	return out
}

// BatchError describes one failed batch.
type BatchError struct {
	Batch int
	IDs   []int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (%d items): %v", e.Batch, len(e.IDs), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Deliver receives the verdicts of one completed batch. Calls are serialized.
type Deliver func(batch int, verdicts []Verdict)

// Dispatcher submits requests to a Classifier in bounded-concurrency batches.
type Dispatcher struct {
	classifier  Classifier
	provider    string
	batchSize   int
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher from a finalized config.
func NewDispatcher(c Classifier, cfg Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		classifier:  c,
		provider:    cfg.Provider,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		timeout:     cfg.TimeoutDuration(),
		logger:      logger.With("system", "classifier"),
	}
}

// Dispatch classifies reqs and hands each batch's verdicts to deliver as soon
// as that batch returns. Verdicts of a failed or timed-out batch are never
// delivered. A failing batch does not cancel the others; all failures are
// returned together as *multierror.Error wrapping *BatchError values.
// Cancelling ctx stops batches that have not started.
func (d *Dispatcher) Dispatch(ctx context.Context, reqs []Request, deliver Deliver) error {
	batches := Batches(reqs, d.batchSize)

	var (
		mu     sync.Mutex
		result *multierror.Error
	)

	g := new(errgroup.Group)
	g.SetLimit(d.concurrency)

	for i, batch := range batches {
		if ctx.Err() != nil {
			mu.Lock()
			result = multierror.Append(result, d.batchError(i, batch, ctx.Err()))
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			verdicts, err := d.run(ctx, i, batch)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result = multierror.Append(result, d.batchError(i, batch, err))
				return nil
			}
			deliver(i, verdicts)
			return nil
		})
	}

	g.Wait()

	if err := result.ErrorOrNil(); err != nil {
		d.logger.Warn(
			"classification finished with failures",
			"batches", len(batches),
			"failed", len(result.Errors),
		)
		return err
	}

	d.logger.Info("classification finished", "batches", len(batches), "items", len(reqs))
	return nil
}

func (d *Dispatcher) run(ctx context.Context, i int, batch []Request) ([]Verdict, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	bctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	verdicts, err := d.classify(bctx, batch)
	metrics.ClassifierBatchDuration.WithLabelValues(d.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		status := metrics.StatusFailed
		if errors.Is(bctx.Err(), context.DeadlineExceeded) {
			status = metrics.StatusTimeout
		}
		metrics.ClassifierBatchesTotal.WithLabelValues(d.provider, status).Inc()

		d.logger.Warn("batch failed", "batch", i, "items", len(batch), "status", status, "error", err)
		return nil, err
	}

	metrics.ClassifierBatchesTotal.WithLabelValues(d.provider, metrics.StatusSuccess).Inc()
	metrics.VerdictsTotal.WithLabelValues(d.provider).Add(float64(len(verdicts)))

	d.logger.Debug("batch classified", "batch", i, "items", len(batch), "verdicts", len(verdicts))
	return verdicts, nil
}

// classify bounds the call by ctx even when the classifier ignores it.
// Verdicts that arrive after the deadline are discarded.
func (d *Dispatcher) classify(ctx context.Context, batch []Request) ([]Verdict, error) {
	type outcome struct {
		verdicts []Verdict
		err      error
	}

	ch := make(chan outcome, 1)
	go func() {
		v, err := d.classifier.Classify(ctx, batch)
		ch <- outcome{v, err}
	}()

	select {
	case o := <-ch:
		if o.err == nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return o.verdicts, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// batchError wraps err so it satisfies errors.Is(err, ErrUnavailable) for
// timeouts, cancellations, and transport failures.
func (d *Dispatcher) batchError(i int, batch []Request, err error) *BatchError {
	ids := make([]int, len(batch))
	for j, r := range batch {
		ids[j] = r.MappingID
	}

	if !IsRetryable(err) && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &BatchError{Batch: i, IDs: ids, Err: err}
}
