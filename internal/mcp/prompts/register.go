package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Audit the unique request surface of a session
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "audit_unique_surface",
		Description: "RECOMMENDED: Map a capture session down to its distinct endpoints and drill into the interesting ones. Start here - provides workflow guidance without the context cost of listing raw traffic.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "session_id",
				Description: "Capture session to audit (default: active)",
				Required:    false,
			},
			{
				Name:        "host",
				Description: "Focus the audit on one host",
				Required:    false,
			},
		},
	}, HandleAuditSurface(cfg))

	// Prompt 2: Triage GraphQL operations
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "triage_graphql_operations",
		Description: "RECOMMENDED: Survey the GraphQL operations in a capture session by operation identity instead of URL path. Covers running graphql mode, reading labels, and inspecting variables.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "session_id",
				Description: "Capture session to survey (default: active)",
				Required:    false,
			},
		},
	}, HandleTriageGraphQL(cfg))
}
