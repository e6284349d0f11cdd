package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/internal/records"
	"github.com/JaimeStill/taxon/pkg/query"
)

func TestValueCoversCatalog(t *testing.T) {
	var r records.Record
	for _, f := range records.Fields() {
		require.True(t, r.Set(f.Name, "x-"+f.Name), f.Name)
	}

	for _, f := range records.Fields() {
		v, ok := r.Value(f.Name)
		require.True(t, ok, f.Name)
		assert.Equal(t, "x-"+f.Name, v, f.Name)
	}

	_, ok := r.Value("nope")
	assert.False(t, ok)
	assert.False(t, r.Set("nope", "x"))
}

func TestLookupField(t *testing.T) {
	f, ok := records.LookupField(records.FieldLevel2)
	require.True(t, ok)
	assert.Equal(t, records.KindEnum, f.Kind)

	f, ok = records.LookupField(records.FieldField)
	require.True(t, ok)
	assert.Equal(t, records.KindText, f.Kind)

	_, ok = records.LookupField("bogus")
	assert.False(t, ok)
}

func TestEnumFields(t *testing.T) {
	assert.Equal(t, []string{
		records.FieldDataSource,
		records.FieldLevel1,
		records.FieldLevel2,
		records.FieldLevel3,
		records.FieldLevel4,
		records.FieldSensitivity,
		records.FieldTaggingMethod,
	}, records.EnumFields())
}

func TestParseSensitivity(t *testing.T) {
	tests := []struct {
		input string
		want  records.Sensitivity
		ok    bool
	}{
		{input: "high", want: records.SensitivityHigh, ok: true},
		{input: " High Sensitivity ", want: records.SensitivityHigh, ok: true},
		{input: "高敏感", want: records.SensitivityHigh, ok: true},
		{input: "中等敏感", want: records.SensitivityMedium, ok: true},
		{input: "low sensitivity", want: records.SensitivityLow, ok: true},
		{input: "公开", want: records.SensitivityPublic, ok: true},
		{input: "secret", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := records.ParseSensitivity(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSensitivityRank(t *testing.T) {
	assert.Less(t, records.SensitivityPublic.Rank(), records.SensitivityLow.Rank())
	assert.Less(t, records.SensitivityLow.Rank(), records.SensitivityMedium.Rank())
	assert.Less(t, records.SensitivityMedium.Rank(), records.SensitivityHigh.Rank())
	assert.Equal(t, records.SensitivityHigh.Rank(), records.Sensitivity("高敏感").Rank())
	assert.Equal(t, 0, records.Sensitivity("unknown").Rank())
}

func TestCompareSensitivity(t *testing.T) {
	assert.Negative(t, records.CompareSensitivity("low", "high"))
	assert.Positive(t, records.CompareSensitivity("High Sensitivity", "low"))
	assert.Zero(t, records.CompareSensitivity("high", "高敏感"))
	assert.Negative(t, records.CompareSensitivity("zzz", "public"))
}

func TestProjectionSortsSensitivityBySeverity(t *testing.T) {
	rs := []records.Record{
		{Field: "a", Sensitivity: records.SensitivityHigh},
		{Field: "b", Sensitivity: records.SensitivityLow},
		{Field: "c", Sensitivity: records.SensitivityMedium},
		{Field: "d", Sensitivity: records.SensitivityPublic},
	}

	out, err := records.Projection().Sort(rs, []query.SortField{{Field: records.FieldSensitivity}})
	require.NoError(t, err)

	var got []string
	for _, r := range out {
		got = append(got, r.Field)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, got, "lexicographic order would put high first")
}

func TestTaggingMethod(t *testing.T) {
	assert.Equal(t, records.TaggingAutomated, records.NormalizeTaggingMethod("AI自动分类"))
	assert.Equal(t, records.TaggingAutomated, records.NormalizeTaggingMethod("系统分类"))
	assert.Equal(t, records.TaggingManual, records.NormalizeTaggingMethod("Manual"))
	assert.Equal(t, records.TaggingMethod("other"), records.NormalizeTaggingMethod(" other "))
	assert.Equal(t, "人工打标", records.TaggingManual.LabelZH())
}

func TestRowRecord(t *testing.T) {
	row := records.Row{
		TableName:        "users",
		Field:            "email",
		FieldDescription: "user email",
		Extra: map[string]string{
			records.FieldDataSource:   "crm",
			records.FieldDatabaseName: "core",
			"owner":                   "ignored",
		},
	}

	rec := row.Record()
	assert.Equal(t, "users", rec.TableName)
	assert.Equal(t, "email", rec.Field)
	assert.Equal(t, "crm", rec.DataSource)
	assert.Equal(t, "core", rec.DatabaseName)
	assert.Empty(t, rec.Level1)
}
