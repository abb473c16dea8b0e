package prompts

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleTriageGraphQL serves a workflow guide for surveying the GraphQL
// operations in a capture session.
func HandleTriageGraphQL(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		sessionID := req.Params.Arguments["session_id"]

		var sb strings.Builder

		sb.WriteString("# Triage GraphQL Operations\n\n")
		sb.WriteString("GraphQL funnels everything through one POST endpoint, so path-based dedup sees a single row. ")
		sb.WriteString("GraphQL mode deduplicates by operation type + name instead.\n\n")

		sb.WriteString("## Step 1: Run in graphql mode\n")
		if sessionID != "" {
			sb.WriteString("```\nuniquereq_run(session_id: \"" + sessionID + "\", mode: \"graphql\")\n```\n")
		} else {
			sb.WriteString("```\nuniquereq_run(session_id: \"active\", mode: \"graphql\")\n```\n")
		}
		sb.WriteString("- Every request body is probed; non-GraphQL requests are skipped (counted as `filtered`)\n")
		sb.WriteString("- `query GetUser(id: 1)` and `query GetUser(id: 2)` collapse to one row: variables do not affect identity\n")
		sb.WriteString("- Batched requests are identified by their first operation\n")
		sb.WriteString("- GraphQL mode keeps its own store; normal-mode rows are untouched\n")

		sb.WriteString("\n## Step 2: Survey the operations\n")
		sb.WriteString("```\nuniquereq_list(mode: \"graphql\")\n```\n")
		sb.WriteString("Labels read like `query GetUser` or `mutation CreateOrder`. Triage order:\n")
		sb.WriteString("1. Mutations first: they change state\n")
		sb.WriteString("2. High `duplicates` queries: polling or core data paths\n")
		sb.WriteString("3. Anonymous operations (`query (anonymous)`): often hand-rolled client code\n")

		sb.WriteString("\n## Step 3: Inspect variables\n")
		sb.WriteString("```\nuniquereq_graphql_inspect(include_query: true)\n```\n")
		sb.WriteString("- `variables_schema` is a JSON Schema inferred from the representative request's variables\n")
		sb.WriteString("- `batch_size` > 0 marks batched callers\n")
		sb.WriteString("- `raw_query` gives the exact selection set for replay\n")

		sb.WriteString("\n## Step 4: Check responses\n")
		sb.WriteString("```\nuniquereq_query_body(mode: \"graphql\", expression: \".errors[]?.message\")\n```\n")
		sb.WriteString("- Surfaces partial failures (`data` + `errors`) across all unique operations in one call\n")
		sb.WriteString("- Swap the expression to extract data instead, e.g. `.data | keys`\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for surveying captured GraphQL operations",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
