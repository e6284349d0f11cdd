package ingest

import (
	"fmt"
	"io"

	"github.com/JaimeStill/taxon/internal/records"
)

// Header aliases accepted for raw field inventories.
var (
	tableAliases       = []string{"表名", records.FieldTableName, "Table Name", "table"}
	fieldAliases       = []string{"字段名", records.FieldField, "字段", "Field Name"}
	descriptionAliases = []string{"字段描述", records.FieldFieldDescription, "Field Description", "描述", "description"}
	dataSourceAliases  = []string{"数据源", records.FieldDataSource, "Data Source"}
	databaseAliases    = []string{"库名", records.FieldDatabaseName, "Database", "数据库"}
)

// ParseRows reads an unlabeled field inventory. The field and description
// columns are required; table, data source, and database are optional.
// Rows with neither a field name nor a description are skipped with a warning.
func ParseRows(r io.Reader) (*Result[records.Row], error) {
	s, err := read(r)
	if err != nil {
		return nil, err
	}

	field := s.column(fieldAliases...)
	desc := s.column(descriptionAliases...)
	if field < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, records.FieldField)
	}
	if desc < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, records.FieldFieldDescription)
	}

	table := s.column(tableAliases...)
	source := s.column(dataSourceAliases...)
	database := s.column(databaseAliases...)

	res := &Result[records.Row]{Warnings: s.warnings, Encoding: s.encoding}

	for i, row := range s.rows {
		out := records.Row{
			TableName:        cell(row, table),
			Field:            cell(row, field),
			FieldDescription: cell(row, desc),
		}

		if out.Field == "" && out.FieldDescription == "" {
			res.Warnings = append(res.Warnings, Warning{Row: s.lines[i], Message: "row has no field name or description; skipped"})
			continue
		}

		extra := map[string]string{}
		if v := cell(row, source); v != "" {
			extra[records.FieldDataSource] = v
		}
		if v := cell(row, database); v != "" {
			extra[records.FieldDatabaseName] = v
		}
		if len(extra) > 0 {
			out.Extra = extra
		}

		res.Items = append(res.Items, out)
	}

	if len(res.Items) == 0 {
		return nil, ErrNoRows
	}
	return res, nil
}
