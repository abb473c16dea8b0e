package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Query_Simple(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"name": "John", "age": 30}`)

	result, err := engine.Query(data, ".name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"John"}, result.Values)
	assert.Equal(t, 1, result.RawCount)
}

func TestEngine_Query_Array(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [{"name": "a"}, {"name": "b"}, {"name": "c"}]}`)

	result, err := engine.Query(data, ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_Deduplicate(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [{"name": "a"}, {"name": "a"}, {"name": "b"}]}`)

	result, err := engine.Query(data, ".items[].name", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_MaxResults(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [1, 2, 3, 4, 5]}`)

	result, err := engine.Query(data, ".items[]", false, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, result.Values)
}

func TestEngine_Query_Select(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [{"status": "active", "name": "a"}, {"status": "inactive", "name": "b"}, {"status": "active", "name": "c"}]}`)

	result, err := engine.Query(data, `.items[] | select(.status == "active") | .name`, false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
}

func TestEngine_Query_InvalidExpression(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"name": "John"}`)

	_, err := engine.Query(data, ".name[", false, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_Query_InvalidJSON(t *testing.T) {
	engine := NewEngine()

	// A malformed body is reported per-body, not as a hard failure.
	result, err := engine.Query([]byte(`{invalid json}`), ".name", false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid JSON")
}

func TestEngine_Query_NilValuesSkipped(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [{"name": "a"}, {"noname": "b"}, {"name": "c"}]}`)

	result, err := engine.Query(data, ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
	assert.Equal(t, 2, result.RawCount)
}

func TestEngine_QueryBodies(t *testing.T) {
	engine := NewEngine()

	bodies := [][]byte{
		[]byte(`{"items": [{"name": "a"}, {"name": "b"}]}`),
		[]byte(`{"items": [{"name": "c"}, {"name": "d"}]}`),
	}

	result, err := engine.QueryBodies(bodies, nil, ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c", "d"}, result.Values)
	assert.Equal(t, 4, result.RawCount)
}

func TestEngine_QueryBodies_DeduplicateAcrossBodies(t *testing.T) {
	engine := NewEngine()

	bodies := [][]byte{
		[]byte(`{"items": [{"name": "a"}, {"name": "b"}]}`),
		[]byte(`{"items": [{"name": "b"}, {"name": "c"}]}`),
	}

	result, err := engine.QueryBodies(bodies, nil, ".items[].name", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, result.Values)
	assert.Equal(t, 4, result.RawCount)
}

func TestEngine_QueryBodies_MaxResults(t *testing.T) {
	engine := NewEngine()

	bodies := [][]byte{
		[]byte(`{"items": [1, 2, 3]}`),
		[]byte(`{"items": [4, 5, 6]}`),
	}

	result, err := engine.QueryBodies(bodies, nil, ".items[]", false, 4)
	require.NoError(t, err)
	assert.Len(t, result.Values, 4)
}

func TestEngine_QueryBodies_Labels(t *testing.T) {
	engine := NewEngine()

	bodies := [][]byte{
		[]byte(`{"items": [{"name": "a"}]}`),
		[]byte(`{"other": "structure"}`), // .items is null here
		[]byte(`{"items": [{"name": "b"}]}`),
	}
	labels := []string{"fp-1", "fp-2", "fp-3"}

	result, err := engine.QueryBodies(bodies, labels, ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, result.Values)
	assert.Equal(t, 1, result.LabelCounts["fp-1"])
	assert.Equal(t, 1, result.LabelCounts["fp-3"])

	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "fp-2"), "error carries the body label: %s", result.Errors[0])
}

func TestEngine_QueryBodies_PositionalLabels(t *testing.T) {
	engine := NewEngine()

	bodies := [][]byte{
		[]byte(`{"other": "a"}`),
		[]byte(`{"other": "b"}`),
	}

	result, err := engine.QueryBodies(bodies, nil, ".items[].name", false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	require.Len(t, result.Errors, 2)
	assert.True(t, strings.HasPrefix(result.Errors[0], "body[0]"))
	assert.True(t, strings.HasPrefix(result.Errors[1], "body[1]"))
}

func TestEngine_Query_RuntimeErrors(t *testing.T) {
	engine := NewEngine()

	// Iterating over null is a runtime error, not a hard failure.
	result, err := engine.Query([]byte(`{"foo": null}`), ".foo[]", false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Values)
	assert.Len(t, result.Errors, 1)
}

func TestEngine_Query_DeduplicateComplexObjects(t *testing.T) {
	engine := NewEngine()

	data := []byte(`{"items": [{"id": 1, "name": "a"}, {"id": 1, "name": "a"}, {"id": 2, "name": "b"}]}`)

	result, err := engine.Query(data, ".items[]", true, 0)
	require.NoError(t, err)
	assert.Len(t, result.Values, 2)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine()

	assert.NoError(t, engine.ValidateExpression(".name"))
	assert.NoError(t, engine.ValidateExpression(".data.items[].name"))
	assert.NoError(t, engine.ValidateExpression(`.items[] | select(.status == "active")`))

	assert.Error(t, engine.ValidateExpression(".name["))
	assert.Error(t, engine.ValidateExpression("invalid("))
}
