package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Ramsey-B/sapling/pkg/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueHeader(t *testing.T) {
	assert.Equal(t, "TRL at 2024-06-01", ValueHeader(readiness.Query{Mode: readiness.ModeByDate, Date: "2024-06-01"}))
	assert.Equal(t, "TRL 6 Date", ValueHeader(readiness.Query{Mode: readiness.ModeByTRL, Level: "trl6"}))
}

func TestWriteReadinessCSV(t *testing.T) {
	result := &readiness.Result{
		Query: readiness.Query{Mode: readiness.ModeByDate, Date: "2024-06-01"},
		ProductFeatures: []readiness.Row{
			{Label: "PF-1", Name: "Docking, rear", Description: "d", Required: true, Value: "TRL 6"},
		},
		Capabilities: []readiness.Row{
			{Label: "CAP-1", Name: "Lidar", Value: readiness.ErrorValue, Error: "bad date"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReadinessCSV(&buf, result))

	expected := "Product Features\n" +
		"Label,Name,Description,Required,TRL at 2024-06-01,Error\n" +
		"PF-1,\"Docking, rear\",d,true,TRL 6,\n" +
		"\n" +
		"Capabilities\n" +
		"Label,Name,Description,Required,TRL at 2024-06-01,Error\n" +
		"CAP-1,Lidar,,false,ERROR,bad date\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteReadinessCSV_EmptySections(t *testing.T) {
	result := &readiness.Result{Query: readiness.Query{Mode: readiness.ModeByTRL, Level: "TRL 9"}}

	var buf bytes.Buffer
	require.NoError(t, WriteReadinessCSV(&buf, result))
	assert.Equal(t, "Product Features\nLabel,Name,Description,Required,TRL 9 Date,Error\n\nCapabilities\nLabel,Name,Description,Required,TRL 9 Date,Error\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
}
