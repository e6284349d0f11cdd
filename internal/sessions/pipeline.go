package sessions

import (
	"context"
	"time"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/metrics"
	"github.com/JaimeStill/taxon/internal/records"
)

// Outcome is the result of a synchronous classification run. It is populated
// even when some batches failed.
type Outcome struct {
	TaskID   string            `json:"taskId"`
	Records  []records.Record  `json:"records"`
	Orphans  []int             `json:"orphans"`
	Failures []mapping.Failure `json:"failures"`
	Missing  []int             `json:"missing"`
	Entries  []mapping.Entry   `json:"-"`
}

// Run pseudonymizes rows, classifies them through d, and restores the
// verdicts. The returned error aggregates batch failures; the Outcome still
// holds every record restored before or despite them.
func Run(ctx context.Context, d *classifier.Dispatcher, rows []records.Row, taskID string) (*Outcome, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	tbl, reqs := mapping.Pseudonymize(taskID, rows, time.Now())
	restorer, err := restore(ctx, d, tbl, reqs, nil)

	return &Outcome{
		TaskID:   taskID,
		Records:  restorer.Records(),
		Orphans:  restorer.Orphans(),
		Failures: restorer.Failed(),
		Missing:  restorer.Pending(),
		Entries:  tbl.Entries(),
	}, err
}

// restore dispatches reqs and feeds each delivered chunk through a Restorer
// over tbl. onChunk, when set, observes the restorer after every chunk.
// Deliveries are serialized by the dispatcher.
func restore(
	ctx context.Context,
	d *classifier.Dispatcher,
	tbl *mapping.Table,
	reqs []classifier.Request,
	onChunk func(r *mapping.Restorer, delta mapping.Result),
) (*mapping.Restorer, error) {
	restorer := mapping.NewRestorer(tbl)

	err := d.Dispatch(ctx, reqs, func(_ int, verdicts []classifier.Verdict) {
		delta := restorer.Apply(verdicts)
		if n := len(delta.Orphans); n > 0 {
			metrics.OrphanVerdictsTotal.Add(float64(n))
		}
		if onChunk != nil {
			onChunk(restorer, delta)
		}
	})

	return restorer, err
}

func progress(total int, r *mapping.Restorer) Counters {
	restored := len(r.Records())
	failed := len(r.Failed())
	return Counters{
		Total:     total,
		Processed: restored + failed,
		Restored:  restored,
		Failed:    failed,
		Orphans:   len(r.Orphans()),
	}
}
