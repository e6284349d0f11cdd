package filter

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// Value is a condition operand: either a single string or a set of strings.
type Value struct {
	multi  bool
	single string
	set    []string
}

// Single creates a single-string operand.
func Single(s string) Value {
	return Value{single: s}
}

// Multi creates a set operand. Duplicates are dropped, first occurrence wins.
func Multi(values ...string) Value {
	set := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(set, v) {
			set = append(set, v)
		}
	}
	return Value{multi: true, set: set}
}

// IsMulti reports whether v is a set operand.
func (v Value) IsMulti() bool {
	return v.multi
}

// String returns the single operand. It is empty for set operands.
func (v Value) String() string {
	return v.single
}

// Set returns a copy of the set operand. It is nil for single operands.
func (v Value) Set() []string {
	if !v.multi {
		return nil
	}
	return slices.Clone(v.set)
}

// UnmarshalJSON accepts a string, an array of strings, or null (an empty string).
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Single("")
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Single(s)
		return nil
	}

	var set []string
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("filter value must be a string or an array of strings")
	}
	*v = Multi(set...)
	return nil
}

// MarshalJSON renders set operands as arrays and single operands as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.multi {
		if v.set == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.set)
	}
	return json.Marshal(v.single)
}
