// Package query provides sort parsing, substring search, and stable multi-key
// ordering over in-memory collections through a field projection.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownField is returned when a sort references a field the projection does not map.
var ErrUnknownField = errors.New("unknown field")

// Compare orders two projected values, returning a negative number when a < b,
// zero when equal, and a positive number when a > b.
type Compare func(a, b string) int

// Projection maps logical field names to string accessors over T, with an
// optional per-field comparison overriding lexicographic order.
type Projection[T any] struct {
	accessors map[string]func(T) string
	compare   map[string]Compare
	fields    []string
}

// NewProjection creates an empty Projection.
func NewProjection[T any]() *Projection[T] {
	return &Projection[T]{
		accessors: make(map[string]func(T) string),
		compare:   make(map[string]Compare),
		fields:    make([]string, 0),
	}
}

// Project adds a field ordered lexicographically.
func (p *Projection[T]) Project(name string, get func(T) string) *Projection[T] {
	return p.ProjectOrdered(name, get, nil)
}

// ProjectOrdered adds a field ordered by cmp. A nil cmp means lexicographic order.
func (p *Projection[T]) ProjectOrdered(name string, get func(T) string, compare Compare) *Projection[T] {
	if _, ok := p.accessors[name]; !ok {
		p.fields = append(p.fields, name)
	}
	p.accessors[name] = get
	if compare != nil {
		p.compare[name] = compare
	} else {
		delete(p.compare, name)
	}
	return p
}

// Has reports whether name is a projected field.
func (p *Projection[T]) Has(name string) bool {
	_, ok := p.accessors[name]
	return ok
}

// Fields returns the projected field names in projection order.
func (p *Projection[T]) Fields() []string {
	return slices.Clone(p.fields)
}

// Value reads the projected field from item.
func (p *Projection[T]) Value(item T, name string) (string, bool) {
	get, ok := p.accessors[name]
	if !ok {
		return "", false
	}
	return get(item), true
}

// Sort returns a stably ordered copy of items. Items comparing equal on every
// key keep their input order regardless of direction.
func (p *Projection[T]) Sort(items []T, fields []SortField) ([]T, error) {
	out := slices.Clone(items)
	if len(fields) == 0 {
		return out, nil
	}

	type key struct {
		get     func(T) string
		compare Compare
		desc    bool
	}

	keys := make([]key, 0, len(fields))
	for _, f := range fields {
		get, ok := p.accessors[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.Field)
		}
		compare := p.compare[f.Field]
		if compare == nil {
			compare = cmp.Compare[string]
		}
		keys = append(keys, key{get: get, compare: compare, desc: f.Descending})
	}

	slices.SortStableFunc(out, func(a, b T) int {
		for _, k := range keys {
			c := k.compare(k.get(a), k.get(b))
			if c == 0 {
				continue
			}
			if k.desc {
				return -c
			}
			return c
		}
		return 0
	})

	return out, nil
}

// Search returns the items whose value at any of the given fields contains
// term, compared case-insensitively. An empty term returns items unchanged.
func (p *Projection[T]) Search(items []T, term string, fields ...string) []T {
	if term == "" || len(fields) == 0 {
		return items
	}

	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))

	for _, item := range items {
		for _, f := range fields {
			get, ok := p.accessors[f]
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(get(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}

	return out
}
