// Package records defines the classification record, its field catalog, and the
// ingest row shape that precedes classification.
package records

// Record is one row of classified field metadata.
// Missing values are empty strings; every attribute is always present.
type Record struct {
	DataSource           string        `json:"dataSource" parquet:"dataSource"`
	DatabaseName         string        `json:"databaseName" parquet:"databaseName"`
	TableName            string        `json:"tableName" parquet:"tableName"`
	Field                string        `json:"field" parquet:"field"`
	FieldDescription     string        `json:"fieldDescription" parquet:"fieldDescription"`
	Level1               string        `json:"level1" parquet:"level1"`
	Level2               string        `json:"level2" parquet:"level2"`
	Level3               string        `json:"level3" parquet:"level3"`
	Level4               string        `json:"level4" parquet:"level4"`
	Sensitivity          Sensitivity   `json:"sensitivityClassification" parquet:"sensitivityClassification"`
	ClassificationReason string        `json:"classificationReason" parquet:"classificationReason"`
	TaggingMethod        TaggingMethod `json:"taggingMethod" parquet:"taggingMethod"`
}

// Value reads the attribute named by field, using the JSON attribute names.
func (r Record) Value(field string) (string, bool) {
	switch field {
	case FieldDataSource:
		return r.DataSource, true
	case FieldDatabaseName:
		return r.DatabaseName, true
	case FieldTableName:
		return r.TableName, true
	case FieldField:
		return r.Field, true
	case FieldFieldDescription:
		return r.FieldDescription, true
	case FieldLevel1:
		return r.Level1, true
	case FieldLevel2:
		return r.Level2, true
	case FieldLevel3:
		return r.Level3, true
	case FieldLevel4:
		return r.Level4, true
	case FieldSensitivity:
		return string(r.Sensitivity), true
	case FieldClassificationReason:
		return r.ClassificationReason, true
	case FieldTaggingMethod:
		return string(r.TaggingMethod), true
	}
	return "", false
}

// Set writes the attribute named by field. Sensitivity and tagging method
// labels are canonicalized when recognized.
func (r *Record) Set(field, value string) bool {
	switch field {
	case FieldDataSource:
		r.DataSource = value
	case FieldDatabaseName:
		r.DatabaseName = value
	case FieldTableName:
		r.TableName = value
	case FieldField:
		r.Field = value
	case FieldFieldDescription:
		r.FieldDescription = value
	case FieldLevel1:
		r.Level1 = value
	case FieldLevel2:
		r.Level2 = value
	case FieldLevel3:
		r.Level3 = value
	case FieldLevel4:
		r.Level4 = value
	case FieldSensitivity:
		r.Sensitivity = NormalizeSensitivity(value)
	case FieldClassificationReason:
		r.ClassificationReason = value
	case FieldTaggingMethod:
		r.TaggingMethod = NormalizeTaggingMethod(value)
	default:
		return false
	}
	return true
}

// Row is one raw ingest row awaiting classification.
// Extra carries optional pass-through columns such as dataSource and databaseName.
type Row struct {
	TableName        string            `json:"tableName"`
	Field            string            `json:"field"`
	FieldDescription string            `json:"fieldDescription"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// Record builds the unclassified record skeleton for r, carrying over any
// pass-through columns that name a record attribute.
func (r Row) Record() Record {
	rec := Record{
		TableName:        r.TableName,
		Field:            r.Field,
		FieldDescription: r.FieldDescription,
	}
	for k, v := range r.Extra {
		switch k {
		case FieldDataSource, FieldDatabaseName:
			rec.Set(k, v)
		}
	}
	return rec
}
