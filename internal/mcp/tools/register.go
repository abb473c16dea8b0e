package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: uniquereq_sessions_list
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_sessions_list",
		Description: "List all capture sessions with their entry counts",
	}, ToolSessionsList(d))

	// Tool 2: uniquereq_run
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_run",
		Description: "Scan a capture session and admit unique requests into the dedup store. In normal mode, requests are deduplicated by method + normalized path template (volatile segments like numeric IDs, UUIDs, and long hex tokens collapse to placeholders); static assets and disallowed methods are filtered. In graphql mode, requests are deduplicated by operation type + name, and non-GraphQL bodies are skipped. Repeated runs only admit fingerprints not yet in the store.",
	}, ToolRun(d))

	// Tool 3: uniquereq_list
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_list",
		Description: "List unique requests in the order they were first seen. Returns rows with fingerprint, seq, label (path template or GraphQL operation), representative entry reference, and duplicate count. Supports free-text token filtering and pagination. Use uniquereq_get_representative to drill into a row.",
	}, ToolList(d))

	// Tool 4: uniquereq_get_representative
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_get_representative",
		Description: "Get the first-seen (representative) capture entry for a fingerprint, including headers and the decoded request or response body, for replay or inspection.",
	}, ToolGetRepresentative(d))

	// Tool 5: uniquereq_clear_row
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_clear_row",
		Description: "Forget a single fingerprint so the next matching request is admitted as new. Sequence numbers are not reused.",
	}, ToolClearRow(d))

	// Tool 6: uniquereq_clear_all
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_clear_all",
		Description: "Reset a mode's dedup store and search index. Sequence numbering restarts at 1.",
	}, ToolClearAll(d))

	// Tool 7: uniquereq_query_body
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_query_body",
		Description: "Run a JQ expression across the representative bodies of unique rows. Returns extracted values, per-body errors with hints, and per-fingerprint value counts. Use this to pull fields (tokens, IDs, error messages) out of many unique endpoints at once.",
	}, ToolQueryBody(d))

	// Tool 8: uniquereq_graphql_inspect
	AddTool(srv, &sdkmcp.Tool{
		Name:        "uniquereq_graphql_inspect",
		Description: "Inspect unique GraphQL operations: type, name, batch size, and an inferred JSON Schema for the operation's variables. Requires rows admitted in graphql mode.",
	}, ToolGraphQLInspect(d))
}
