// Package mapping pseudonymizes ingest rows before classification and restores
// original field identity from classifier verdicts.
package mapping

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/formatting"
)

// Entry correlates one anonymized mapping id with the original field identity.
type Entry struct {
	MappingID                int         `json:"mappingId"`
	OriginalFieldName        string      `json:"originalFieldName"`
	OriginalFieldDescription string      `json:"originalFieldDescription"`
	TaskID                   string      `json:"taskId"`
	CreatedAt                time.Time   `json:"createdAt"`
	Source                   records.Row `json:"-"`
}

// Table is the immutable mapping table of one task. Mapping ids run from 1
// in input order, so entry i has mapping id i+1.
type Table struct {
	taskID  string
	entries []Entry
}

// NewTaskID returns a fresh task identifier.
func NewTaskID() string {
	return "task_" + uuid.NewString()
}

// Pseudonymize assigns mapping ids 1..N to rows in input order and builds the
// task's mapping table. The returned requests carry only the mapping id and
// a whitespace-normalized description; field names never leave the table.
func Pseudonymize(taskID string, rows []records.Row, now time.Time) (*Table, []classifier.Request) {
	entries := make([]Entry, len(rows))
	reqs := make([]classifier.Request, len(rows))

	for i, row := range rows {
		id := i + 1
		entries[i] = Entry{
			MappingID:                id,
			OriginalFieldName:        row.Field,
			OriginalFieldDescription: row.FieldDescription,
			TaskID:                   taskID,
			CreatedAt:                now,
			Source:                   row,
		}
		reqs[i] = classifier.Request{
			MappingID:        id,
			FieldDescription: formatting.SanitizeText(row.FieldDescription),
		}
	}

	return &Table{taskID: taskID, entries: entries}, reqs
}

// TaskID returns the owning task.
func (t *Table) TaskID() string {
	return t.taskID
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in mapping id order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Lookup returns the entry for a mapping id.
func (t *Table) Lookup(id int) (Entry, bool) {
	if id < 1 || id > len(t.entries) {
		return Entry{}, false
	}
	return t.entries[id-1], true
}

// IDs returns every mapping id in the table in ascending order.
func (t *Table) IDs() []int {
	ids := make([]int, len(t.entries))
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}
