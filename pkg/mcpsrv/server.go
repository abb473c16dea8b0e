package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/internal/analyzer"
	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/config"
	"github.com/waelttf/uniquereq-mcp/internal/filter"
	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/internal/logging"
	"github.com/waelttf/uniquereq-mcp/internal/mcp"
	"github.com/waelttf/uniquereq-mcp/internal/mcp/tools"
	"github.com/waelttf/uniquereq-mcp/internal/normalize"
	"github.com/waelttf/uniquereq-mcp/internal/query"
	"github.com/waelttf/uniquereq-mcp/pkg/client"
)

// Server is the uniquereq MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin uniquereq tools.
//
// The client parameter is required and provides access to the capture API.
// Use functional options to configure logging, add custom tools, etc.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	// Build configuration from options
	cfg := &serverConfig{
		config: config.Load(), // Load defaults from environment
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Setup logging
	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	entryCache, err := cache.NewEntryCache(cfg.config.EntryCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry cache: %w", err)
	}
	templateCache, err := cache.NewTemplateCache(cfg.config.TemplateCacheMax)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}

	// Resolve the request filter: explicit option, config file, or defaults.
	filterCfg := filter.DefaultConfig()
	switch {
	case cfg.filter != nil:
		filterCfg = *cfg.filter
	case cfg.config.FilterFile != "":
		filterCfg, err = filter.LoadFile(cfg.config.FilterFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load filter config: %w", err)
		}
	}

	// Create engines
	normalizer := normalize.New(cfg.config.HexMinLen)
	fpEngine := fingerprint.New(normalizer, templateCache)
	queryEngine := query.NewEngine()
	dedup := analyzer.New(c, entryCache, cfg.config, fpEngine, filterCfg)

	// Create deps for internal tools and custom tools
	toolDeps := &tools.Deps{
		Client:   c,
		Cache:    entryCache,
		Config:   cfg.config,
		Analyzer: dedup,
		Query:    queryEngine,
	}

	// Create public deps (same values, different type for public API)
	deps := &Deps{
		Client:      c,
		Cache:       entryCache,
		Config:      cfg.config,
		Analyzer:    dedup,
		Fingerprint: fpEngine,
		Query:       queryEngine,
	}

	// Build internal server options
	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		fn := fn // capture for closure
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	// Create internal server
	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
