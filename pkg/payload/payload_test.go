package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/pkg/models"
)

func Test_Unwrap_fencedJSON(t *testing.T) {
	ex, ok := Unwrap("```json\n{\"summary\":\"A\",\"bullets\":[\"b1\"]}\n```")

	require.True(t, ok)
	assert.Equal(t, "A", ex.Summary)
	assert.Equal(t, []string{"b1"}, ex.Bullets)
}

func Test_Unwrap_decodedObject(t *testing.T) {
	ex, ok := Unwrap(map[string]any{
		"summary": "market overview",
		"bullets": []any{"point one", "point two"},
		"sources": []any{
			map[string]any{"title": "Report", "url": "https://example.com/r", "date": "2024-01-02"},
			map[string]any{"note": "no title or url"},
		},
	})

	require.True(t, ok)
	assert.Equal(t, "market overview", ex.Summary)
	assert.Equal(t, []string{"point one", "point two"}, ex.Bullets)
	require.Len(t, ex.Sources, 1)
	assert.Equal(t, models.Source{Title: "Report", URL: "https://example.com/r", Date: "2024-01-02"}, ex.Sources[0])
}

func Test_Unwrap_doubleEncoded(t *testing.T) {
	ex, ok := Unwrap(map[string]any{
		"summary": "```json\n{\"summary\":\"inner\",\"bullets\":[\"nested\"]}\n```",
	})

	require.True(t, ok)
	assert.Equal(t, "inner", ex.Summary)
	assert.Equal(t, []string{"nested"}, ex.Bullets)
}

func Test_Unwrap_repairsAlmostJSON(t *testing.T) {
	// trailing comma and single quotes, the usual generated defects
	ex, ok := Unwrap(`{'summary': 'fixed', 'bullets': ['a',]}`)

	require.True(t, ok)
	assert.Equal(t, "fixed", ex.Summary)
	assert.Equal(t, []string{"a"}, ex.Bullets)
}

func Test_Unwrap_plainTextFallback(t *testing.T) {
	ex, ok := Unwrap("The search backend returned nothing useful today.")

	assert.False(t, ok)
	assert.Equal(t, "The search backend returned nothing useful today.", ex.Summary)
	assert.Empty(t, ex.Bullets)
}

func Test_Unwrap_rawMessage(t *testing.T) {
	ex, ok := Unwrap(json.RawMessage(`{"summary":"raw"}`))

	require.True(t, ok)
	assert.Equal(t, "raw", ex.Summary)
}

func Test_Unwrap_nil(t *testing.T) {
	ex, ok := Unwrap(nil)

	assert.False(t, ok)
	assert.Empty(t, ex.Summary)
}

func Test_ExtractObject(t *testing.T) {
	out, err := ExtractObject("Here you go:\n```json\n{\"topic\": \"sales\", \"region\": \"north\"}\n```")
	require.NoError(t, err)

	m := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "sales", m["topic"])
}

func Test_ExtractObject_repairs(t *testing.T) {
	out, err := ExtractObject(`{"topic": "sales",}`)
	require.NoError(t, err)

	m := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "sales", m["topic"])
}

func Test_ExtractObject_noObject(t *testing.T) {
	_, err := ExtractObject("no structured content here")
	assert.Error(t, err)
}
