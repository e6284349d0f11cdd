package query

import "strings"

// SortField represents a single ordering key.
// Field is the logical field name (resolved through a Projection).
// Descending controls sort direction (false = ASC, true = DESC).
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// String renders the field in ParseSortFields syntax.
func (f SortField) String() string {
	if f.Descending {
		return "-" + f.Field
	}
	return f.Field
}

// ParseSortFields parses a comma-separated sort string into a SortField slice.
// Fields prefixed with "-" are descending. Example: "level1,-sensitivityClassification".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}

	return fields
}
