// Package table renders the visible page of a record collection from an
// explicit view state. State values are immutable: every command returns a
// new State.
package table

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/query"
)

// ErrUnknownColumn is returned when sorting by a column records do not have.
var ErrUnknownColumn = errors.New("unknown sort column")

// MapHTTPStatus maps table errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownColumn) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// State is the table view state. An empty SortColumn means input order.
// PageIndex is zero-based.
type State struct {
	SortColumn    string    `json:"sortColumn"`
	SortDirection Direction `json:"sortDirection"`
	PageIndex     int       `json:"pageIndex"`
	PageSize      int       `json:"pageSize"`
	SearchTerm    string    `json:"searchTerm"`
}

// Engine applies table commands and renders pages under a pagination config.
type Engine struct {
	cfg  pagination.Config
	proj *query.Projection[records.Record]
}

// New creates an Engine. cfg is expected to be finalized.
func New(cfg pagination.Config) *Engine {
	return &Engine{
		cfg:  cfg,
		proj: records.Projection(),
	}
}

// Config returns the pagination config.
func (e *Engine) Config() pagination.Config {
	return e.cfg
}

// NewState returns the state of a freshly loaded collection.
func (e *Engine) NewState() State {
	return State{
		SortDirection: Ascending,
		PageSize:      e.cfg.DefaultPageSize,
	}
}

// SortBy toggles the direction when column is already the sort column,
// otherwise sorts by column ascending.
func (e *Engine) SortBy(s State, column string) (State, error) {
	if !e.proj.Has(column) {
		return s, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}

	if s.SortColumn == column {
		if s.SortDirection == Descending {
			s.SortDirection = Ascending
		} else {
			s.SortDirection = Descending
		}
		return s, nil
	}

	s.SortColumn = column
	s.SortDirection = Ascending
	return s, nil
}

// ClearSort returns to input order.
func (e *Engine) ClearSort(s State) State {
	s.SortColumn = ""
	s.SortDirection = Ascending
	return s
}

// SetPage moves to a zero-based page. Indices past the end are clamped on render.
func (e *Engine) SetPage(s State, index int) State {
	s.PageIndex = max(index, 0)
	return s
}

// SetPageSize changes the page size, bounded by the config, and returns to the first page.
func (e *Engine) SetPageSize(s State, size int) State {
	s.PageSize = e.cfg.ClampSize(size)
	s.PageIndex = 0
	return s
}

// SetSearchTerm narrows the collection to records whose field name contains
// term. Changing the term returns to the first page.
func (e *Engine) SetSearchTerm(s State, term string) State {
	if term != s.SearchTerm {
		s.PageIndex = 0
	}
	s.SearchTerm = term
	return s
}
