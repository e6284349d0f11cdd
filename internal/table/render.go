package table

import (
	"slices"

	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/query"
)

// View is one rendered page.
type View struct {
	Records   []records.Record `json:"records"`
	Total     int              `json:"total"`
	PageCount int              `json:"pageCount"`
	PageIndex int              `json:"pageIndex"`
	PageSize  int              `json:"pageSize"`
	Window    []int            `json:"window"`
	PageSizes []int            `json:"pageSizes"`
	State     State            `json:"state"`
}

// Resolve returns the searched and sorted collection without paging.
// Input order is kept when no sort column is set.
func (e *Engine) Resolve(rs []records.Record, s State) []records.Record {
	found := e.proj.Search(rs, s.SearchTerm, records.SearchField)

	if s.SortColumn == "" {
		return slices.Clone(found)
	}

	sorted, err := e.proj.Sort(found, []query.SortField{{
		Field:      s.SortColumn,
		Descending: s.SortDirection == Descending,
	}})
	if err != nil {
		// SortBy rejects unknown columns, so this only happens for hand-built states.
		return found
	}
	return sorted
}

// Clamp bounds the page index of s into the page range of rs after search.
func (e *Engine) Clamp(rs []records.Record, s State) State {
	size := s.PageSize
	if size < 1 {
		size = e.cfg.DefaultPageSize
	}
	total := len(e.proj.Search(rs, s.SearchTerm, records.SearchField))
	s.PageIndex = pagination.Clamp(s.PageIndex, pagination.PageCount(total, size))
	return s
}

// Render computes the visible page fresh from rs: search, then sort, then
// paginate. The returned State carries the page index clamped into the
// current page range.
func (e *Engine) Render(rs []records.Record, s State) (View, State) {
	if s.PageSize < 1 {
		s.PageSize = e.cfg.DefaultPageSize
	}

	page := pagination.NewPageResult(e.Resolve(rs, s), s.PageIndex, s.PageSize)
	s.PageIndex = page.PageIndex

	return View{
		Records:   page.Data,
		Total:     page.Total,
		PageCount: page.TotalPages,
		PageIndex: page.PageIndex,
		PageSize:  page.PageSize,
		Window:    pagination.Window(page.PageIndex, page.TotalPages),
		PageSizes: e.cfg.PageSizes,
		State:     s,
	}, s
}
