package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaJSON marshals a schema for structural assertions.
func schemaJSON(t *testing.T, result *InferredSchema) map[string]any {
	t.Helper()
	data, err := json.Marshal(result.Schema)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestInfer_SingleObject(t *testing.T) {
	result, err := Infer([]byte(`{"id": "42", "limit": 10, "active": true, "score": 1.5}`))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.SampleCount)
	assert.True(t, result.AllMatch)

	m := schemaJSON(t, result)
	assert.Equal(t, "object", m["type"])

	props := m["properties"].(map[string]any)
	assert.Equal(t, "string", props["id"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["limit"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["active"].(map[string]any)["type"])
	assert.Equal(t, "number", props["score"].(map[string]any)["type"])

	// Single sample: every non-null field is required.
	assert.ElementsMatch(t, []any{"id", "limit", "active", "score"}, m["required"])
}

func TestInfer_MergedSamples(t *testing.T) {
	result, err := Infer(
		[]byte(`{"id": "1", "filter": "new"}`),
		[]byte(`{"id": "2"}`),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SampleCount)
	assert.False(t, result.AllMatch)

	m := schemaJSON(t, result)
	props := m["properties"].(map[string]any)
	assert.Contains(t, props, "id")
	assert.Contains(t, props, "filter")

	// Only fields present in all samples are required.
	assert.Equal(t, []any{"id"}, m["required"])
}

func TestInfer_NullableNotRequired(t *testing.T) {
	result, err := Infer(
		[]byte(`{"id": "1", "cursor": null}`),
		[]byte(`{"id": "2", "cursor": "abc"}`),
	)
	require.NoError(t, err)

	m := schemaJSON(t, result)
	assert.Equal(t, []any{"id"}, m["required"])
}

func TestInfer_NestedObject(t *testing.T) {
	result, err := Infer([]byte(`{"input": {"name": "x", "tags": ["a", "b"]}}`))
	require.NoError(t, err)

	m := schemaJSON(t, result)
	input := m["properties"].(map[string]any)["input"].(map[string]any)
	assert.Equal(t, "object", input["type"])
	assert.ElementsMatch(t, []any{"name", "tags"}, input["required"])

	tags := input["properties"].(map[string]any)["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])
}

func TestInfer_ArrayOfObjects(t *testing.T) {
	result, err := Infer([]byte(`{"items": [{"id": 1, "name": "a"}, {"id": 2}]}`))
	require.NoError(t, err)

	m := schemaJSON(t, result)
	items := m["properties"].(map[string]any)["items"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	// "name" is absent from the second element, so only "id" is required.
	assert.Equal(t, []any{"id"}, items["required"])
}

func TestInfer_MixedTypes(t *testing.T) {
	result, err := Infer(
		[]byte(`{"value": "text"}`),
		[]byte(`{"value": 42}`),
	)
	require.NoError(t, err)

	m := schemaJSON(t, result)
	value := m["properties"].(map[string]any)["value"].(map[string]any)
	require.Contains(t, value, "anyOf")
	assert.Len(t, value["anyOf"], 2)
}

func TestInfer_SkipsUnparseableSamples(t *testing.T) {
	result, err := Infer(
		[]byte(`not json`),
		[]byte(`{"id": 1}`),
	)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.SampleCount)
}

func TestInfer_NoUsableSamples(t *testing.T) {
	result, err := Infer([]byte(`not json`))
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = Infer()
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestInfer_AllMatch(t *testing.T) {
	result, err := Infer(
		[]byte(`{"id": "1"}`),
		[]byte(`{"id": "2"}`),
	)
	require.NoError(t, err)
	assert.True(t, result.AllMatch)
}
