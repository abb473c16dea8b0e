package mcpsrv

import (
	"github.com/waelttf/uniquereq-mcp/internal/analyzer"
	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/config"
	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/internal/query"
	"github.com/waelttf/uniquereq-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client      *client.Client
	Cache       *cache.EntryCache
	Config      *config.Config
	Analyzer    *analyzer.Analyzer
	Fingerprint *fingerprint.Engine
	Query       *query.Engine
}
