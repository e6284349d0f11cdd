package ingest

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/JaimeStill/taxon/internal/records"
)

// legacy headers of older classification sheets
var recordAliases = map[string]string{
	"敏感性分级":            records.FieldSensitivity,
	"sensitivityLevel": records.FieldSensitivity,
	"字段":               records.FieldField,
	"原始字段名":            records.FieldField,
	"原始字段描述":           records.FieldFieldDescription,
}

// ParseRecords reads an already-labeled record sheet. Headers may be the
// record attribute names, their English labels, or their Chinese labels.
// Unknown columns are ignored with a warning.
func ParseRecords(r io.Reader) (*Result[records.Record], error) {
	s, err := read(r)
	if err != nil {
		return nil, err
	}

	res := &Result[records.Record]{Warnings: s.warnings, Encoding: s.encoding}

	columns := make([]string, len(s.headers))
	for i, h := range s.headers {
		name, ok := resolveHeader(h)
		if !ok {
			res.Warnings = append(res.Warnings, Warning{Row: 1, Message: fmt.Sprintf("unknown column %q ignored", h)})
			continue
		}
		columns[i] = name
	}

	if !slices.Contains(columns, records.FieldField) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, records.FieldField)
	}

	for _, row := range s.rows {
		var rec records.Record
		for i, name := range columns {
			if name != "" {
				rec.Set(name, row[i])
			}
		}
		res.Items = append(res.Items, rec)
	}

	return res, nil
}

func resolveHeader(h string) (string, bool) {
	if name, ok := recordAliases[h]; ok {
		return name, true
	}
	for _, f := range records.Fields() {
		if strings.EqualFold(h, f.Name) || strings.EqualFold(h, f.Label) || h == f.LabelZH {
			return f.Name, true
		}
	}
	return "", false
}
