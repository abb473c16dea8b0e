package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedType string
		expectedName string
	}{
		{
			name:         "named query",
			body:         `{"query": "query GetUser($id: ID!) { user(id: $id) { name } }"}`,
			expectedType: TypeQuery,
			expectedName: "GetUser",
		},
		{
			name:         "named mutation",
			body:         `{"query": "mutation CreateUser { createUser { id } }"}`,
			expectedType: TypeMutation,
			expectedName: "CreateUser",
		},
		{
			name:         "subscription",
			body:         `{"query": "subscription OnMessage { messageAdded { text } }"}`,
			expectedType: TypeSubscription,
			expectedName: "OnMessage",
		},
		{
			name:         "shorthand anonymous query",
			body:         `{"query": "{ viewer { id } }"}`,
			expectedType: TypeQuery,
			expectedName: "",
		},
		{
			name:         "anonymous query keyword",
			body:         `{"query": "query { viewer { id } }"}`,
			expectedType: TypeQuery,
			expectedName: "",
		},
		{
			name:         "operationName overrides scanned name",
			body:         `{"query": "query A { a } query B { b }", "operationName": "B"}`,
			expectedType: TypeQuery,
			expectedName: "B",
		},
		{
			name:         "leading whitespace in query",
			body:         `{"query": "\n  mutation  UpdateSettings { ok }"}`,
			expectedType: TypeMutation,
			expectedName: "UpdateSettings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Parse([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, op.Type)
			assert.Equal(t, tt.expectedName, op.Name)
		})
	}
}

func TestParse_Variables(t *testing.T) {
	op, err := Parse([]byte(`{"query": "query GetUser($id: ID!) { user(id: $id) { name } }", "variables": {"id": "42"}}`))
	require.NoError(t, err)
	assert.True(t, op.HasVariables)
	require.IsType(t, map[string]any{}, op.Variables)
	assert.Equal(t, "42", op.Variables.(map[string]any)["id"])

	op, err = Parse([]byte(`{"query": "{ viewer { id } }"}`))
	require.NoError(t, err)
	assert.False(t, op.HasVariables)
}

func TestParse_Batched(t *testing.T) {
	body := `[
		{"query": "query First { a }"},
		{"query": "mutation Second { b }"},
		{"query": "query Third { c }"}
	]`

	op, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, TypeQuery, op.Type)
	assert.Equal(t, "First", op.Name)
	assert.Equal(t, 3, op.BatchSize)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sentinel error
	}{
		{"empty body", "", ErrEmpty},
		{"whitespace only", "   \n\t  ", ErrEmpty},
		{"empty batch", "[]", ErrEmpty},
		{"JSON without query field", `{"username": "admin", "password": "hunter2"}`, ErrNotGraphQL},
		{"empty query field", `{"query": ""}`, ErrNotGraphQL},
		{"batch without query field", `[{"foo": "bar"}]`, ErrNotGraphQL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, IsNotGraphQL(err))
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"query": "oops`))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Nil(t, parseErr.Sentinel)
	assert.NotNil(t, parseErr.Cause)
	assert.False(t, IsNotGraphQL(err))
}

func TestExtract(t *testing.T) {
	op := Extract([]byte(`{"query": "mutation CreateUser { createUser { id } }"}`))
	assert.True(t, op.IsGraphQL())
	assert.Equal(t, "mutation CreateUser", op.Label())

	// Extract never errors: malformed bodies extract to unknown.
	for _, body := range []string{"", "not json at all", `{"other": "field"}`, `<html></html>`} {
		op := Extract([]byte(body))
		assert.False(t, op.IsGraphQL(), "body %q should not be GraphQL", body)
		assert.Equal(t, TypeUnknown, op.Type)
		assert.Empty(t, op.Label())
	}
}

func TestOperation_Label(t *testing.T) {
	assert.Equal(t, "query GetUser", Operation{Type: TypeQuery, Name: "GetUser"}.Label())
	assert.Equal(t, "query (anonymous)", Operation{Type: TypeQuery}.Label())
	assert.Equal(t, "", Operation{Type: TypeUnknown}.Label())
}

func TestIsGraphQLBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{"graphql query", `{"query": "{ viewer { id } }"}`, true},
		{"batched", `[{"query": "{ a }"}]`, true},
		{"plain JSON", `{"username": "admin"}`, false},
		{"query field not a string", `{"query": 42}`, false},
		{"empty", "", false},
		{"not JSON", "hello world", false},
		{"empty array", "[]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsGraphQLBody([]byte(tt.body)), "IsGraphQLBody(%q)", tt.body)
		})
	}
}
