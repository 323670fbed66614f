package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

func TestParseParams(t *testing.T) {
	p := parseParams("to_sdks=2&from_sdks=1&title=x&from_sdks=3&&cursor=Hay%20Day;Supercell+Oy&=5")

	assert.Equal(t, []string{"to_sdks", "from_sdks", "title", "cursor"}, p.names)
	assert.Equal(t, []string{"1", "3"}, p.list("from_sdks"))
	assert.Equal(t, "Hay Day;Supercell Oy", p.value("cursor"))
	assert.False(t, p.has("count"))
}

func TestParseParams_EmptyValues(t *testing.T) {
	p := parseParams("from_sdk=&other_from_sdks=&other_from_sdks=2")

	assert.False(t, p.has("from_sdk"))
	assert.Equal(t, []string{"2"}, p.list("other_from_sdks"))
	assert.Equal(t, []string{"from_sdk", "other_from_sdks"}, p.names)
}

func TestParseNumbersQuery(t *testing.T) {
	q, c := parseNumbersQuery(parseParams("from_sdks=1&from_sdks=2&to_sdks=3"))
	require.Empty(t, c.errors())
	assert.Equal(t, []int64{1, 2}, q.sources)
	assert.Equal(t, []int64{3}, q.destinations)
	assert.Equal(t, []idParam{
		{name: "from_sdks", ids: []int64{1, 2}, list: true},
		{name: "to_sdks", ids: []int64{3}, list: true},
	}, c.ids)

	_, c = parseNumbersQuery(parseParams("to=1&from_sdks=1&from_sdks=x&from_sdks=y"))
	errs := c.errors()
	require.Len(t, errs, 2)
	assert.Equal(t, CodeUnrecognizedField, errs[0].Code)
	assert.Equal(t, []string{"to"}, errs[0].Parameters)
	assert.Equal(t, CodeInvalidValue, errs[1].Code)
	assert.Equal(t, map[string]any{"from_sdks": []string{"x", "y"}}, errs[1].Diagnostics)
	assert.Empty(t, c.ids)
}

func TestParseAppsQuery_Selectors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		src   string
		dst   string
	}{
		{"specific to specific", "from_sdk=1&to_sdk=2&count=1", "Specific(1)", "Specific(2)"},
		{"none to specific", "other_from_sdks=2&other_from_sdks=3&to_sdk=1&count=1", "NoneOf(2,3)", "Specific(1)"},
		{"empty means unspecified", "from_sdk=&to_sdk=&count=1", "NoneOf()", "NoneOf()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, c := parseAppsQuery(parseParams(tt.query))
			require.Empty(t, c.errors())
			assert.Equal(t, tt.src, req.Source.String())
			assert.Equal(t, tt.dst, req.Destination.String())
			assert.Equal(t, 1, req.Count)
		})
	}
}

func TestParseAppsQuery_Cursor(t *testing.T) {
	req, c := parseAppsQuery(parseParams("count=2&cursor=Hay%20Day%3BSupercell%20Oy&direction=previous"))
	require.Empty(t, c.errors())
	require.NotNil(t, req.Cursor)
	assert.Equal(t, core.Cursor{Name: "Hay Day", SellerName: "Supercell Oy"}, *req.Cursor)
	assert.Equal(t, core.DirectionPrevious, req.Direction)
}

func TestParseAppsQuery_Problems(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		codes  []Code
		params [][]string
	}{
		{
			name:   "count missing",
			query:  "",
			codes:  []Code{CodeMissingField},
			params: [][]string{{"count"}},
		},
		{
			name:   "cursor without direction",
			query:  "count=1&cursor=a;b",
			codes:  []Code{CodeMissingField},
			params: [][]string{{"direction"}},
		},
		{
			name:   "direction without cursor",
			query:  "count=1&direction=next",
			codes:  []Code{CodeMissingField},
			params: [][]string{{"cursor"}},
		},
		{
			name:   "groups in order",
			query:  "frm=1&from_sdk=a&to_sdk=1&other_to_sdks=2&cursor=bad",
			codes:  []Code{CodeUnrecognizedField, CodeMissingField, CodeInvalidValue, CodeMisusedParameter},
			params: [][]string{{"frm"}, {"count", "direction"}, {"from_sdk", "cursor"}, {"other_to_sdks"}},
		},
		{
			name:   "misuse counts presence",
			query:  "count=1&from_sdk=x&other_from_sdks=y",
			codes:  []Code{CodeInvalidValue, CodeMisusedParameter},
			params: [][]string{{"from_sdk", "other_from_sdks"}, {"other_from_sdks"}},
		},
		{
			name:   "count below one",
			query:  "count=0",
			codes:  []Code{CodeInvalidValue},
			params: [][]string{{"count"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := parseAppsQuery(parseParams(tt.query))
			errs := c.errors()
			require.Len(t, errs, len(tt.codes))
			for i, e := range errs {
				assert.Equal(t, tt.codes[i], e.Code)
				assert.Equal(t, tt.params[i], e.Parameters)
			}
		})
	}
}
