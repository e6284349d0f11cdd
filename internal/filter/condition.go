// Package filter compiles filter conditions over classification records and
// evaluates them as a flat, left-to-right AND/OR chain.
package filter

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/validation"
)

// Operator is the comparison a condition applies to a record attribute.
type Operator string

const (
	OpEquals   Operator = "equals"
	OpContains Operator = "contains"
	OpIn       Operator = "in"
	OpNotIn    Operator = "notIn"
	OpRegex    Operator = "regex"
)

// Operators returns every supported operator.
func Operators() []Operator {
	return []Operator{OpEquals, OpContains, OpIn, OpNotIn, OpRegex}
}

// Logic joins a condition to the running result of the conditions before it.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Condition is one predicate over a record attribute. Logic is ignored on
// the first condition of a list.
type Condition struct {
	ID       string   `json:"id" validate:"required"`
	Field    string   `json:"field" validate:"required"`
	Operator Operator `json:"operator" validate:"required,oneof=equals contains in notIn regex"`
	Value    Value    `json:"value"`
	Logic    Logic    `json:"logic,omitempty" validate:"omitempty,oneof=AND OR"`
}

func (c Condition) String() string {
	value := c.Value.String()
	if c.Value.IsMulti() {
		value = strings.Join(c.Value.Set(), ", ")
	}
	return fmt.Sprintf("%s %s %q", c.Field, c.Operator, value)
}

// Normalize checks that the operator and operand shape agree and returns the
// condition in canonical shape.
//
//   - in and notIn take a set; a single value becomes a one-element set and
//     an empty string becomes the empty set.
//   - contains and regex take a single string; a set of at most one element
//     is unwrapped, larger sets are rejected.
//   - equals on a text attribute takes a single string with the same
//     unwrapping; on an enumerated attribute either shape is accepted.
//   - An empty Logic defaults to AND.
func Normalize(c Condition) (Condition, error) {
	if err := validation.Struct(c); err != nil {
		return c, &ConditionError{ID: c.ID, Field: c.Field, Err: ErrInvalidShape, Cause: err}
	}

	info, ok := records.LookupField(c.Field)
	if !ok {
		return c, &ConditionError{ID: c.ID, Field: c.Field, Err: ErrUnknownField}
	}

	if c.Logic == "" {
		c.Logic = LogicAnd
	}

	switch c.Operator {
	case OpIn, OpNotIn:
		if !c.Value.IsMulti() {
			if c.Value.String() == "" {
				c.Value = Multi()
			} else {
				c.Value = Multi(c.Value.String())
			}
		}
	case OpContains, OpRegex:
		v, err := unwrap(c)
		if err != nil {
			return c, err
		}
		c.Value = v
	case OpEquals:
		if info.Kind == records.KindText {
			v, err := unwrap(c)
			if err != nil {
				return c, err
			}
			c.Value = v
		}
	}

	return c, nil
}

func unwrap(c Condition) (Value, error) {
	if !c.Value.IsMulti() {
		return c.Value, nil
	}

	set := c.Value.Set()
	switch len(set) {
	case 0:
		return Single(""), nil
	case 1:
		return Single(set[0]), nil
	}

	return c.Value, &ConditionError{
		ID:    c.ID,
		Field: c.Field,
		Err:   ErrInvalidShape,
		Cause: fmt.Errorf("%s on %s takes a single value, got %d", c.Operator, c.Field, len(set)),
	}
}
