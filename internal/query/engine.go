// Package query provides JQ-based querying over the bodies of unique
// representative entries.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes JQ queries against JSON data.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Result contains the outcome of a JQ query across one or more bodies.
type Result struct {
	Values      []any          `json:"values"`                 // Extracted values
	Errors      []string       `json:"errors,omitempty"`       // Per-body errors (e.g., type mismatch)
	RawCount    int            `json:"raw_count"`              // Count before deduplication
	LabelCounts map[string]int `json:"label_counts,omitempty"` // Value count per body label
}

// compile parses and compiles a JQ expression.
func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// Query executes a JQ expression against a single JSON body.
func (e *Engine) Query(data []byte, expression string, deduplicate bool, maxResults int) (*Result, error) {
	return e.QueryBodies([][]byte{data}, nil, expression, deduplicate, maxResults)
}

// QueryBodies executes a JQ expression against multiple JSON bodies,
// combining results. Labels identify each body in error messages and counts;
// callers typically pass fingerprints. A nil labels slice falls back to
// positional labels.
func (e *Engine) QueryBodies(bodies [][]byte, labels []string, expression string, deduplicate bool, maxResults int) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Values:      make([]any, 0),
		Errors:      make([]string, 0),
		LabelCounts: make(map[string]int),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	for i, data := range bodies {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		label := fmt.Sprintf("body[%d]", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}

		var input any
		if err := json.Unmarshal(data, &input); err != nil {
			errMsg := fmt.Sprintf("%s: invalid JSON: %v", label, err)
			if !seenErrors[errMsg] {
				result.Errors = append(result.Errors, errMsg)
				seenErrors[errMsg] = true
			}
			continue
		}

		iter := code.Run(input)
		for {
			if maxResults > 0 && len(result.Values) >= maxResults {
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				errMsg := formatJQError(label, err)
				if !seenErrors[errMsg] {
					result.Errors = append(result.Errors, errMsg)
					seenErrors[errMsg] = true
				}
				continue
			}

			if v == nil {
				continue
			}

			result.RawCount++
			result.LabelCounts[label]++

			if deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			result.Values = append(result.Values, v)
		}
	}

	return result, nil
}

// formatJQError creates a helpful error message for JQ execution errors.
//
// Runtime JQ errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so string matching is used to decorate
// the display message with hints. No control flow depends on it.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this body)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}

// ValidateExpression checks if a JQ expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	if _, err := gojq.Compile(query); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}

	return nil
}
