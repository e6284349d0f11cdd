package pagination

// Ellipsis marks a gap in a Window of page buttons.
const Ellipsis = -1

// windowThreshold is the page count at or below which every page gets a button.
const windowThreshold = 7

// PageCount returns ceil(total/size), or 0 when there is nothing to page.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Clamp bounds a zero-based page index into [0, pages-1].
// With zero pages the only valid index is 0.
func Clamp(index, pages int) int {
	if pages <= 0 || index < 0 {
		return 0
	}
	if index >= pages {
		return pages - 1
	}
	return index
}

// Bounds returns the half-open slice range [start, end) covered by the page
// at index within a collection of length total.
func Bounds(index, size, total int) (start, end int) {
	if size <= 0 || total <= 0 {
		return 0, 0
	}
	start = min(index*size, total)
	end = min(start+size, total)
	return start, end
}

// Slice returns the page of items at index. The result aliases items.
func Slice[T any](items []T, index, size int) []T {
	start, end := Bounds(index, size, len(items))
	return items[start:end]
}

// Window returns the zero-based page indices to render as page buttons
// for the current page. Gaps are marked with Ellipsis.
//
// Up to seven pages are all listed. Beyond that the first and last pages are
// always present along with a run of neighbors around the current page.
func Window(current, pages int) []int {
	if pages <= 0 {
		return []int{}
	}
	current = Clamp(current, pages)

	if pages <= windowThreshold {
		out := make([]int, pages)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := []int{0}
	if current > 3 {
		out = append(out, Ellipsis)
	}

	start := max(1, current-1)
	end := min(pages-2, current+1)

	switch {
	case current <= 3:
		start, end = 1, 4
	case current >= pages-4:
		start = pages - 5
		end = pages - 2
	}

	for i := start; i <= end; i++ {
		out = append(out, i)
	}

	if current < pages-4 {
		out = append(out, Ellipsis)
	}

	return append(out, pages-1)
}

// PageResult holds a page of data along with pagination metadata.
// PageIndex is zero-based.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	PageIndex  int `json:"page_index"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult slices items into the page at index, clamping the index
// against the resulting page count.
func NewPageResult[T any](items []T, index, size int) PageResult[T] {
	total := len(items)
	pages := PageCount(total, size)
	index = Clamp(index, pages)

	data := Slice(items, index, size)
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		PageIndex:  index,
		PageSize:   size,
		TotalPages: pages,
	}
}
