package filter

import "github.com/JaimeStill/taxon/internal/records"

// Options returns, for each enumerated attribute, the distinct non-empty values
// present in rs in first-appearance order. Every enumerated attribute has an
// entry, possibly empty.
func Options(rs []records.Record) map[string][]string {
	fields := records.EnumFields()
	out := make(map[string][]string, len(fields))
	seen := make(map[string]map[string]struct{}, len(fields))

	for _, f := range fields {
		out[f] = []string{}
		seen[f] = make(map[string]struct{})
	}

	for _, r := range rs {
		for _, f := range fields {
			v, _ := r.Value(f)
			if v == "" {
				continue
			}
			if _, ok := seen[f][v]; ok {
				continue
			}
			seen[f][v] = struct{}{}
			out[f] = append(out[f], v)
		}
	}

	return out
}
