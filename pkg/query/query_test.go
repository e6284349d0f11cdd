package query_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/taxon/pkg/query"
)

type item struct {
	name  string
	level int
}

func projection() *query.Projection[item] {
	return query.NewProjection[item]().
		Project("name", func(i item) string { return i.name }).
		ProjectOrdered("level", func(i item) string { return strconv.Itoa(i.level) }, func(a, b string) int {
			x, _ := strconv.Atoi(a)
			y, _ := strconv.Atoi(b)
			return x - y
		})
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{input: "", want: nil},
		{input: "name", want: []query.SortField{{Field: "name"}}},
		{input: "-level", want: []query.SortField{{Field: "level", Descending: true}}},
		{
			input: "name, -level,,",
			want:  []query.SortField{{Field: "name"}, {Field: "level", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, query.ParseSortFields(tt.input))
		})
	}
}

func TestSortFieldString(t *testing.T) {
	assert.Equal(t, "-level", query.SortField{Field: "level", Descending: true}.String())
	assert.Equal(t, "name", query.SortField{Field: "name"}.String())
}

func TestSortStable(t *testing.T) {
	items := []item{{"a", 1}, {"b", 1}, {"c", 2}}
	p := projection()

	asc, err := p.Sort(items, []query.SortField{{Field: "level"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(asc))

	desc, err := p.Sort(items, []query.SortField{{Field: "level", Descending: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, names(desc))

	assert.Equal(t, []string{"a", "b", "c"}, names(items), "input untouched")
}

func TestSortCustomOrderBeatsLexicographic(t *testing.T) {
	items := []item{{"ten", 10}, {"nine", 9}}
	out, err := projection().Sort(items, []query.SortField{{Field: "level"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"nine", "ten"}, names(out))
}

func TestSortMultiKey(t *testing.T) {
	items := []item{{"b", 2}, {"a", 2}, {"z", 1}}
	out, err := projection().Sort(items, query.ParseSortFields("-level,name"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "z"}, names(out))
}

func TestSortUnknownField(t *testing.T) {
	_, err := projection().Sort([]item{{"a", 1}}, []query.SortField{{Field: "nope"}})
	assert.ErrorIs(t, err, query.ErrUnknownField)
}

func TestSearch(t *testing.T) {
	items := []item{{"user_ID", 1}, {"email", 1}, {"Userid", 2}}
	p := projection()

	assert.Equal(t, []string{"user_ID", "Userid"}, names(p.Search(items, "USERI", "name")))
	assert.Len(t, p.Search(items, "", "name"), 3)
	assert.Empty(t, p.Search(items, "zzz", "name"))
}

func TestFields(t *testing.T) {
	p := projection()
	assert.Equal(t, []string{"name", "level"}, p.Fields())
	assert.True(t, p.Has("name"))
	assert.False(t, p.Has("other"))

	v, ok := p.Value(item{"x", 3}, "level")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}
