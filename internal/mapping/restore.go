package mapping

import (
	"slices"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/records"
)

// Failure is a verdict the classifier marked as failed for its item.
type Failure struct {
	MappingID int    `json:"mappingId"`
	FieldName string `json:"fieldName"`
	Error     string `json:"error"`
}

// Result is the outcome of restoring a set of verdicts.
type Result struct {
	Records []records.Record `json:"records"`
	Orphans []int            `json:"orphans"`
	Failed  []Failure        `json:"failed"`
}

// Restore re-attaches original identity to each verdict by mapping id.
// One record is produced per resolvable mapping id, in order of its first
// verdict; when an id repeats, its last successful verdict wins. Verdicts
// whose id is not in the table are reported once as orphans, and failed
// verdicts as failures unless the same id also succeeded; neither yields a
// record.
func Restore(t *Table, verdicts []classifier.Verdict) Result {
	res := Result{
		Records: make([]records.Record, 0, len(verdicts)),
		Orphans: []int{},
		Failed:  []Failure{},
	}

	restored := make(map[int]int)
	failed := make(map[int]struct{})

	for _, v := range verdicts {
		entry, ok := t.Lookup(v.MappingID)
		if !ok {
			if !slices.Contains(res.Orphans, v.MappingID) {
				res.Orphans = append(res.Orphans, v.MappingID)
			}
			continue
		}

		if v.Failed() {
			if _, dup := failed[v.MappingID]; dup {
				continue
			}
			failed[v.MappingID] = struct{}{}
			res.Failed = append(res.Failed, Failure{
				MappingID: v.MappingID,
				FieldName: entry.OriginalFieldName,
				Error:     v.Error,
			})
			continue
		}

		if i, dup := restored[v.MappingID]; dup {
			res.Records[i] = build(entry, v)
			continue
		}
		restored[v.MappingID] = len(res.Records)
		res.Records = append(res.Records, build(entry, v))
	}

	res.Failed = slices.DeleteFunc(res.Failed, func(f Failure) bool {
		_, ok := restored[f.MappingID]
		return ok
	})

	return res
}

func build(e Entry, v classifier.Verdict) records.Record {
	rec := e.Source.Record()
	rec.Field = e.OriginalFieldName
	rec.FieldDescription = e.OriginalFieldDescription
	rec.Level1 = v.Level1
	rec.Level2 = v.Level2
	rec.Level3 = v.Level3
	rec.Level4 = v.Level4
	rec.Sensitivity = records.NormalizeSensitivity(v.Sensitivity)
	rec.ClassificationReason = v.Reason
	rec.TaggingMethod = records.TaggingAutomated
	return rec
}

// Restorer accumulates verdicts for one task across partial deliveries.
// Applying the same verdict twice is a no-op; a later successful verdict for a
// mapping id replaces the earlier one. A Restorer is not safe for concurrent use.
type Restorer struct {
	table    *Table
	resolved map[int]records.Record
	failed   map[int]Failure
	orphans  []int
}

// NewRestorer creates a Restorer over an immutable table.
func NewRestorer(t *Table) *Restorer {
	return &Restorer{
		table:    t,
		resolved: make(map[int]records.Record, t.Len()),
		failed:   make(map[int]Failure),
	}
}

// Apply restores a chunk of verdicts and returns the restoration delta for
// that chunk alone.
func (r *Restorer) Apply(chunk []classifier.Verdict) Result {
	res := Restore(r.table, chunk)

	for _, id := range res.Orphans {
		if !slices.Contains(r.orphans, id) {
			r.orphans = append(r.orphans, id)
		}
	}

	for _, f := range res.Failed {
		if _, ok := r.resolved[f.MappingID]; !ok {
			r.failed[f.MappingID] = f
		}
	}

	for _, v := range chunk {
		if v.Failed() {
			continue
		}
		if entry, ok := r.table.Lookup(v.MappingID); ok {
			r.resolved[v.MappingID] = build(entry, v)
			delete(r.failed, v.MappingID)
		}
	}

	return res
}

// Records returns every restored record in submission order.
func (r *Restorer) Records() []records.Record {
	out := make([]records.Record, 0, len(r.resolved))
	for _, id := range r.table.IDs() {
		if rec, ok := r.resolved[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Pending returns the mapping ids with neither a restored record nor a failure.
func (r *Restorer) Pending() []int {
	var out []int
	for _, id := range r.table.IDs() {
		_, ok := r.resolved[id]
		_, bad := r.failed[id]
		if !ok && !bad {
			out = append(out, id)
		}
	}
	return out
}

// Failed returns the item failures still unresolved, in mapping id order.
func (r *Restorer) Failed() []Failure {
	out := make([]Failure, 0, len(r.failed))
	for _, id := range r.table.IDs() {
		if f, ok := r.failed[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Orphans returns the distinct orphan mapping ids in first-seen order.
func (r *Restorer) Orphans() []int {
	return slices.Clone(r.orphans)
}

// Done reports whether every mapping id has been restored or failed.
func (r *Restorer) Done() bool {
	return len(r.Pending()) == 0
}
