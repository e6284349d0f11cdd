package records

import (
	"slices"

	"github.com/JaimeStill/taxon/pkg/query"
)

// Attribute names, matching the JSON names of Record.
const (
	FieldDataSource           = "dataSource"
	FieldDatabaseName         = "databaseName"
	FieldTableName            = "tableName"
	FieldField                = "field"
	FieldFieldDescription     = "fieldDescription"
	FieldLevel1               = "level1"
	FieldLevel2               = "level2"
	FieldLevel3               = "level3"
	FieldLevel4               = "level4"
	FieldSensitivity          = "sensitivityClassification"
	FieldClassificationReason = "classificationReason"
	FieldTaggingMethod        = "taggingMethod"
)

// Kind is the value domain of an attribute.
type Kind string

const (
	// KindText is open free text.
	KindText Kind = "text"
	// KindEnum is a closed domain whose values are offered as choices.
	KindEnum Kind = "enum"
)

// FieldInfo describes one Record attribute.
type FieldInfo struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Label   string `json:"label"`
	LabelZH string `json:"labelZh"`
}

var catalog = []FieldInfo{
	{Name: FieldDataSource, Kind: KindEnum, Label: "Data Source", LabelZH: "数据源"},
	{Name: FieldDatabaseName, Kind: KindText, Label: "Database", LabelZH: "库名"},
	{Name: FieldTableName, Kind: KindText, Label: "Table", LabelZH: "表名"},
	{Name: FieldField, Kind: KindText, Label: "Field", LabelZH: "字段名"},
	{Name: FieldFieldDescription, Kind: KindText, Label: "Field Description", LabelZH: "字段描述"},
	{Name: FieldLevel1, Kind: KindEnum, Label: "Level 1", LabelZH: "一级分类"},
	{Name: FieldLevel2, Kind: KindEnum, Label: "Level 2", LabelZH: "二级分类"},
	{Name: FieldLevel3, Kind: KindEnum, Label: "Level 3", LabelZH: "三级分类"},
	{Name: FieldLevel4, Kind: KindEnum, Label: "Level 4", LabelZH: "四级分类"},
	{Name: FieldSensitivity, Kind: KindEnum, Label: "Sensitivity", LabelZH: "敏感分级"},
	{Name: FieldClassificationReason, Kind: KindText, Label: "Classification Reason", LabelZH: "分类依据"},
	{Name: FieldTaggingMethod, Kind: KindEnum, Label: "Tagging Method", LabelZH: "打标方式"},
}

// SearchField is the attribute matched by the table search term.
const SearchField = FieldField

// Fields returns the attribute catalog in display order.
func Fields() []FieldInfo {
	return slices.Clone(catalog)
}

// LookupField returns the catalog entry for name.
func LookupField(name string) (FieldInfo, bool) {
	i := slices.IndexFunc(catalog, func(f FieldInfo) bool { return f.Name == name })
	if i < 0 {
		return FieldInfo{}, false
	}
	return catalog[i], true
}

// EnumFields returns the names of closed-domain attributes in display order.
func EnumFields() []string {
	var out []string
	for _, f := range catalog {
		if f.Kind == KindEnum {
			out = append(out, f.Name)
		}
	}
	return out
}

var projection = newProjection()

func newProjection() *query.Projection[Record] {
	p := query.NewProjection[Record]()
	for _, f := range catalog {
		name := f.Name
		get := func(r Record) string {
			v, _ := r.Value(name)
			return v
		}
		if name == FieldSensitivity {
			p.ProjectOrdered(name, get, CompareSensitivity)
			continue
		}
		p.Project(name, get)
	}
	return p
}

// Projection returns the shared sort and search projection over Record.
// Sensitivity orders by tier severity, every other attribute lexicographically.
func Projection() *query.Projection[Record] {
	return projection
}
