package filter

import (
	"regexp"
	"slices"
	"strings"

	"github.com/JaimeStill/taxon/internal/records"
)

type predicate struct {
	cond  Condition
	lower string
	set   map[string]struct{}
	re    *regexp.Regexp
}

// Filter is a compiled, immutable condition list.
type Filter struct {
	preds []predicate
}

// Compile normalizes every condition and compiles every regex pattern
// case-insensitively. It stops at the first failing condition and returns
// its *ConditionError; no partial filter is produced.
func Compile(conds []Condition) (*Filter, error) {
	f := &Filter{preds: make([]predicate, 0, len(conds))}
	seen := make(map[string]struct{}, len(conds))

	for _, raw := range conds {
		c, err := Normalize(raw)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[c.ID]; dup {
			return nil, &ConditionError{ID: c.ID, Field: c.Field, Err: ErrDuplicateID}
		}
		seen[c.ID] = struct{}{}

		p := predicate{cond: c}

		switch c.Operator {
		case OpContains:
			p.lower = strings.ToLower(c.Value.String())
		case OpRegex:
			if pattern := c.Value.String(); pattern != "" {
				re, err := regexp.Compile("(?i)" + pattern)
				if err != nil {
					return nil, &ConditionError{
						ID:      c.ID,
						Field:   c.Field,
						Pattern: pattern,
						Err:     ErrInvalidPattern,
						Cause:   err,
					}
				}
				p.re = re
			}
		}

		if c.Value.IsMulti() {
			p.set = make(map[string]struct{}, len(c.Value.set))
			for _, v := range c.Value.set {
				p.set[v] = struct{}{}
			}
		}

		f.preds = append(f.preds, p)
	}

	return f, nil
}

// Len returns the number of conditions.
func (f *Filter) Len() int {
	return len(f.preds)
}

// Conditions returns the normalized conditions in evaluation order.
func (f *Filter) Conditions() []Condition {
	out := make([]Condition, len(f.preds))
	for i, p := range f.preds {
		out[i] = p.cond
	}
	return out
}

// Match evaluates the conditions left to right with no precedence:
// the first condition seeds the result and each later condition folds into
// it with its own Logic. An empty filter matches every record.
func (f *Filter) Match(r records.Record) bool {
	if len(f.preds) == 0 {
		return true
	}

	result := f.preds[0].match(r)
	for _, p := range f.preds[1:] {
		m := p.match(r)
		if p.cond.Logic == LogicOr {
			result = result || m
		} else {
			result = result && m
		}
	}
	return result
}

// Apply returns the matching records in input order.
func (f *Filter) Apply(rs []records.Record) []records.Record {
	if len(f.preds) == 0 {
		return slices.Clone(rs)
	}

	out := make([]records.Record, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate compiles conds and applies them to rs. An empty condition list
// returns every record.
func Evaluate(conds []Condition, rs []records.Record) ([]records.Record, error) {
	f, err := Compile(conds)
	if err != nil {
		return nil, err
	}
	return f.Apply(rs), nil
}

func (p predicate) match(r records.Record) bool {
	operand, _ := r.Value(p.cond.Field)

	switch p.cond.Operator {
	case OpEquals:
		if p.set != nil {
			_, ok := p.set[operand]
			return ok
		}
		return operand == p.cond.Value.String()
	case OpContains:
		if p.lower == "" {
			return true
		}
		return strings.Contains(strings.ToLower(operand), p.lower)
	case OpIn:
		_, ok := p.set[operand]
		return ok
	case OpNotIn:
		_, ok := p.set[operand]
		return !ok
	case OpRegex:
		if p.re == nil {
			return true
		}
		return p.re.MatchString(operand)
	}
	return false
}
