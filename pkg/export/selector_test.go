package export

import (
	"bytes"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/sapling/pkg/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	result := &readiness.Result{
		Query: readiness.Query{Mode: readiness.ModeByDate, Date: "2024-06-01"},
		ProductFeatures: []readiness.Row{
			{Label: "PF-1", Value: "TRL 6", Required: true},
			{Label: "PF-2", Value: "Not Started"},
		},
	}

	tests := []struct {
		name       string
		expression string
		expected   any
	}{
		{name: "labels", expression: "product_features[].label", expected: []any{"PF-1", "PF-2"}},
		{name: "filter", expression: "product_features[?required].label", expected: []any{"PF-1"}},
		{name: "scalar", expression: "query.date", expected: "2024-06-01"},
		{name: "missing key", expression: "nothing", expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSelector(tt.expression)
			require.NoError(t, err)

			selected, err := s.Select(result)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, selected)
		})
	}
}

func TestSelectorEmptyPassesThrough(t *testing.T) {
	s, err := NewSelector("")
	require.NoError(t, err)
	assert.True(t, s.Empty())

	v := map[string]int{"a": 1}
	selected, err := s.Select(v)
	require.NoError(t, err)
	assert.Equal(t, v, selected)
}

func TestSelectorInvalidExpression(t *testing.T) {
	_, err := NewSelector("product_features[")
	require.Error(t, err)
	assert.True(t, httperror.IsBadRequest(err))
}

func TestSelectorWriteJSON(t *testing.T) {
	s, err := NewSelector("[].name")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf, []map[string]string{{"name": "Launch"}}))
	assert.Equal(t, "[\n  \"Launch\"\n]\n", buf.String())
}
