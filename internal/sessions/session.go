// Package sessions implements the classification dashboard domain: a session
// holds one record collection with its filters and table state, fed either by
// the pseudonymizing classification pipeline or by loading labeled records.
package sessions

import (
	"fmt"
	"time"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/filter"
	"github.com/JaimeStill/taxon/internal/mapping"
	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/internal/table"
)

// Status is the lifecycle state of a session's classification task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Source records how a session's collection was produced.
type Source string

const (
	SourceClassify Source = "classify"
	SourceLoad     Source = "load"
)

// Counters track classification progress.
type Counters struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Restored  int `json:"restored"`
	Failed    int `json:"failed"`
	Orphans   int `json:"orphans"`
	Missing   int `json:"missing"`
}

// Session is an immutable snapshot. Every action produces a new Session that
// replaces the previous one wholesale; slices are never mutated in place.
type Session struct {
	ID          string             `json:"id"`
	TaskID      string             `json:"taskId,omitempty"`
	Source      Source             `json:"source"`
	Status      Status             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Conditions  []filter.Condition `json:"conditions"`
	Table       table.State        `json:"table"`
	Counters    Counters           `json:"counters"`
	Orphans     []int              `json:"orphans,omitempty"`
	Failures    []mapping.Failure  `json:"failures,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`

	// Records is the raw collection; Filtered is Records narrowed by Conditions.
	Records  []records.Record `json:"-"`
	Filtered []records.Record `json:"-"`

	filter *filter.Filter
}

// Summary is the list view of a session.
type Summary struct {
	*Session
	RecordCount   int `json:"recordCount"`
	FilteredCount int `json:"filteredCount"`
}

// Summary returns the list view of s.
func (s *Session) Summary() Summary {
	return Summary{
		Session:       s,
		RecordCount:   len(s.Records),
		FilteredCount: len(s.Filtered),
	}
}

// Terminal reports whether the classification task has finished.
func (s *Session) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

func (s *Session) clone() *Session {
	c := *s
	return &c
}

// withRecords replaces the collection, reapplies the active filter and
// clamps the page index to the new collection.
func (s *Session) withRecords(rs []records.Record, e *table.Engine) *Session {
	c := s.clone()
	c.Records = rs
	return c.withFilter(c.filter, e)
}

// withFilter narrows Records by f. c must already be a fresh clone.
func (s *Session) withFilter(f *filter.Filter, e *table.Engine) *Session {
	s.filter = f
	s.Conditions = f.Conditions()
	s.Filtered = f.Apply(s.Records)
	s.Table = e.Clamp(s.Filtered, s.Table)
	return s
}

// unavailable returns an error wrapping classifier.ErrUnavailable when the
// classification failed before a single record was restored.
func (s *Session) unavailable() error {
	if s.Status != StatusFailed || len(s.Records) > 0 {
		return nil
	}
	return fmt.Errorf("%w: session %s: %s", classifier.ErrUnavailable, s.ID, s.Error)
}

// View is a rendered page of a session together with its classification
// status, so an empty page of a failed or unfinished session is not mistaken
// for an empty result.
type View struct {
	table.View
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}
