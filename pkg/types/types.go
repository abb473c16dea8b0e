// Package types provides shared types for uniquereq-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UniqueRow is the tool-facing representation of one unique request.
type UniqueRow struct {
	Fingerprint string `json:"fingerprint"`
	Seq         uint32 `json:"seq"`
	Label       string `json:"label"`
	Method      string `json:"method,omitempty"`
	Host        string `json:"host,omitempty"`
	URL         string `json:"url,omitempty"`
	EntryID     string `json:"entry_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Status      int    `json:"status,omitempty"`
	FirstSeenMs int64  `json:"first_seen_ms,omitempty"`
	Duplicates  int    `json:"duplicates"`
}

// ResourceRef points to an MCP resource.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime,omitempty"`
	Hint string `json:"hint,omitempty"`
}
