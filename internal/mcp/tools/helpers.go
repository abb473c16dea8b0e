// Package tools contains MCP tool implementations for uniquereq.
package tools

import (
	"github.com/waelttf/uniquereq-mcp/internal/dedup"
	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// parseModeInput converts a tool input mode string, mapping failures to
// INVALID_INPUT.
func parseModeInput(s string) (fingerprint.Mode, error) {
	mode, err := fingerprint.ParseMode(s)
	if err != nil {
		return mode, ErrInvalidInput(err.Error())
	}
	return mode, nil
}

// toUniqueRow converts a store entry to its tool-facing representation.
func toUniqueRow(e dedup.UniqueEntry) types.UniqueRow {
	return types.UniqueRow{
		Fingerprint: e.Fingerprint,
		Seq:         e.Seq,
		Label:       e.Label,
		Method:      e.Method,
		Host:        e.Host,
		URL:         e.URL,
		EntryID:     e.EntryID,
		SessionID:   e.SessionID,
		Status:      e.Status,
		FirstSeenMs: e.FirstSeenMs,
		Duplicates:  e.Duplicates,
	}
}

// toUniqueRows converts a slice of store entries, always returning a non-nil
// slice so tool outputs serialize as [] instead of null.
func toUniqueRows(entries []dedup.UniqueEntry) []types.UniqueRow {
	rows := make([]types.UniqueRow, len(entries))
	for i, e := range entries {
		rows[i] = toUniqueRow(e)
	}
	return rows
}
