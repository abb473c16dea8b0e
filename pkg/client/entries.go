package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListEntries retrieves all entries within a session.
// Use "active" as the sessionID to reference the currently active session.
func (c *Client) ListEntries(ctx context.Context, sessionID string) ([]SessionEntry, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/entries"
	var entries []SessionEntry
	if err := c.get(ctx, path, nil, &entries); err != nil {
		return nil, fmt.Errorf("listing entries for session %q: %w", sessionID, err)
	}
	return entries, nil
}

// GetEntry retrieves a specific entry within a session.
// Use "active" as sessionID to reference the currently active session.
func (c *Client) GetEntry(ctx context.Context, sessionID, entryID string) (*SessionEntry, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/entries/" + url.PathEscape(entryID)
	var entry SessionEntry
	if err := c.get(ctx, path, nil, &entry); err != nil {
		return nil, fmt.Errorf("getting entry %q in session %q: %w", entryID, sessionID, err)
	}
	return &entry, nil
}
