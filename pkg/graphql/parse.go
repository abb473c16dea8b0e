package graphql

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// requestBody represents the JSON structure of a GraphQL request body.
type requestBody struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables"`
}

// Extract parses a request body and returns the operation identity.
// It never fails: malformed JSON, empty bodies, and JSON without a query
// field all yield an Operation with Type == TypeUnknown. Batched (JSON
// array) bodies extract the first operation and record the batch size.
func Extract(body []byte) Operation {
	op, err := Parse(body)
	if err != nil || op == nil {
		return Operation{Type: TypeUnknown}
	}
	return *op
}

// Parse parses a GraphQL request body (single or batched), returning the
// first operation. Unlike Extract it reports why a body was rejected:
// check errors.Is against ErrEmpty and ErrNotGraphQL, or errors.As for
// *ParseError to get the underlying cause.
func Parse(body []byte) (*Operation, error) {
	body = trimSpace(body)
	if len(body) == 0 {
		return nil, newParseError(ErrEmpty, "graphql: empty body", nil)
	}

	// Batched bodies are JSON arrays; the first operation is the identity.
	if body[0] == '[' {
		var arr []requestBody
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, newParseError(nil, "graphql: invalid JSON array", err)
		}
		if len(arr) == 0 {
			return nil, newParseError(ErrEmpty, "graphql: empty batch array", nil)
		}
		if arr[0].Query == "" {
			return nil, newParseError(ErrNotGraphQL, "graphql: batch without query field", nil)
		}
		op := parseOne(arr[0])
		op.BatchSize = len(arr)
		return &op, nil
	}

	var single requestBody
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, newParseError(nil, "graphql: invalid JSON object", err)
	}
	if single.Query == "" {
		return nil, newParseError(ErrNotGraphQL, "graphql: not a GraphQL request body", nil)
	}

	op := parseOne(single)
	return &op, nil
}

// parseOne converts a decoded request body into an Operation.
func parseOne(b requestBody) Operation {
	opType, opName := scanQuery(b.Query)

	op := Operation{
		Type:         opType,
		Name:         opName,
		RawQuery:     b.Query,
		Variables:    b.Variables,
		HasVariables: b.Variables != nil,
	}

	// An explicit operationName field wins over the scanned identifier.
	if b.OperationName != "" {
		op.Name = b.OperationName
	}

	return op
}

// scanQuery extracts the operation type and name from a GraphQL query
// string using simple string scanning. Shorthand queries ("{ ... }")
// and queries without a leading keyword default to the query type with
// an empty name.
func scanQuery(query string) (string, string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return TypeQuery, ""
	}

	// Shorthand selection set: anonymous query
	if strings.HasPrefix(query, "{") {
		return TypeQuery, ""
	}

	opType := TypeQuery
	rest := query
	for _, keyword := range []string{TypeSubscription, TypeMutation, TypeQuery} {
		if strings.HasPrefix(strings.ToLower(rest), keyword) {
			opType = keyword
			rest = rest[len(keyword):]
			break
		}
	}

	// Operation name is the identifier before '(' or '{'
	i := 0
	for i < len(rest) && unicode.IsSpace(rune(rest[i])) {
		i++
	}
	start := i
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}

	return opType, rest[start:i]
}

// isIdentChar returns true for characters valid in a GraphQL identifier.
func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}

// trimSpace trims whitespace from both ends of a byte slice.
func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && b[start] <= ' ' {
		start++
	}
	end := len(b)
	for end > start && b[end-1] <= ' ' {
		end--
	}
	return b[start:end]
}

// Sentinel errors for parse failures.
var (
	// ErrEmpty indicates the request body was empty or whitespace-only.
	ErrEmpty = errors.New("graphql: empty body")

	// ErrNotGraphQL indicates the body is valid JSON but does not contain
	// a query field.
	ErrNotGraphQL = errors.New("graphql: not a GraphQL request body")
)

// ParseError wraps a parse failure with the underlying cause.
// Use errors.Is to check for ErrEmpty or ErrNotGraphQL, and
// errors.As to extract the ParseError for context.
type ParseError struct {
	// Sentinel is the category (ErrEmpty, ErrNotGraphQL, or nil for JSON errors).
	Sentinel error
	// Cause is the underlying error (e.g., json.SyntaxError).
	Cause error
	// Message provides human-readable context.
	Message string
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	if e.Sentinel != nil {
		return e.Sentinel
	}
	return e.Cause
}

// Is supports errors.Is matching against sentinel errors.
func (e *ParseError) Is(target error) bool {
	return e.Sentinel == target
}

// IsNotGraphQL returns true if the error indicates the body is not GraphQL.
// Checks for both ErrNotGraphQL and ErrEmpty using errors.Is.
func IsNotGraphQL(err error) bool {
	return errors.Is(err, ErrNotGraphQL) || errors.Is(err, ErrEmpty)
}

func newParseError(sentinel error, message string, cause error) *ParseError {
	return &ParseError{
		Sentinel: sentinel,
		Cause:    cause,
		Message:  message,
	}
}

// IsGraphQLBody probes whether a JSON body is a GraphQL request by checking
// for the presence of a non-empty "query" string field (or, for batched
// bodies, in the first array element). This is more reliable than path-based
// detection because GraphQL endpoints can be mounted on any path.
//
// Does not fully parse the body, only checks structural signals.
func IsGraphQLBody(body []byte) bool {
	body = trimSpace(body)
	if len(body) == 0 {
		return false
	}

	if body[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil || len(arr) == 0 {
			return false
		}
		return hasQueryField(arr[0])
	}

	return hasQueryField(body)
}

// hasQueryField checks if a JSON object contains a non-empty "query" string field.
func hasQueryField(data []byte) bool {
	var obj struct {
		Query *string `json:"query"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	return obj.Query != nil && *obj.Query != ""
}
