package tools

import (
	"context"

	"github.com/waelttf/uniquereq-mcp/internal/analyzer"
	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/config"
	"github.com/waelttf/uniquereq-mcp/internal/entryfetch"
	"github.com/waelttf/uniquereq-mcp/internal/query"
	"github.com/waelttf/uniquereq-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client   *client.Client
	Cache    *cache.EntryCache
	Config   *config.Config
	Analyzer *analyzer.Analyzer
	Query    *query.Engine
}

// FetchEntry retrieves an entry by ID, checking the cache first.
// If not cached, it fetches from the API client and caches the result.
func (d *Deps) FetchEntry(ctx context.Context, sessionID, entryID string) (*client.SessionEntry, error) {
	return entryfetch.FetchEntry(ctx, d.Client, d.Cache, sessionID, entryID)
}

// DecodeBody extracts and base64-decodes the body for a given target
// ("request" or "response"). Returns the decoded bytes and the content-type
// header value. Does not filter by content type.
func (d *Deps) DecodeBody(entry *client.SessionEntry, target string) ([]byte, string, error) {
	return entryfetch.DecodeBody(entry, target)
}
