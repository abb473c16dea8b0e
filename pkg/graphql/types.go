// Package graphql provides lightweight GraphQL request body extraction.
// It identifies the operation type and name from GraphQL HTTP request bodies
// without a full AST parser, for use as a deduplication identity.
package graphql

// Operation type values.
const (
	TypeQuery        = "query"
	TypeMutation     = "mutation"
	TypeSubscription = "subscription"
	TypeUnknown      = "unknown"
)

// Operation is a single GraphQL operation extracted from a request body.
type Operation struct {
	Type         string `json:"type"`                    // query, mutation, subscription, or unknown
	Name         string `json:"name,omitempty"`          // Operation name (empty for anonymous)
	RawQuery     string `json:"raw_query,omitempty"`     // Raw query string from the body
	Variables    any    `json:"variables,omitempty"`     // Variables object (raw)
	HasVariables bool   `json:"has_variables,omitempty"` // Whether variables were present
	BatchSize    int    `json:"batch_size,omitempty"`    // Number of operations in a batched body (0 for single)
}

// IsGraphQL reports whether the body this operation came from was a
// recognizable GraphQL request. Malformed, non-JSON, and non-GraphQL
// bodies extract to an Operation with Type == TypeUnknown.
func (o Operation) IsGraphQL() bool {
	return o.Type != TypeUnknown && o.Type != ""
}

// Label returns a human-readable identity for the operation,
// e.g. "mutation CreateUser" or "query (anonymous)".
func (o Operation) Label() string {
	if !o.IsGraphQL() {
		return ""
	}
	if o.Name == "" {
		return o.Type + " (anonymous)"
	}
	return o.Type + " " + o.Name
}
