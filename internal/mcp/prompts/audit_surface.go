package prompts

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleAuditSurface serves a workflow guide for mapping the unique request
// surface of a capture session.
func HandleAuditSurface(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		sessionID := req.Params.Arguments["session_id"]
		host := req.Params.Arguments["host"]

		var sb strings.Builder

		sb.WriteString("# Audit the Unique Request Surface\n\n")
		sb.WriteString("Goal: reduce a capture session to its distinct endpoints, then drill into the interesting ones.\n")
		sb.WriteString("The capture proxy is at " + cfg.CaptureBaseURL + ".\n\n")

		sb.WriteString("## Step 1: Pick a session\n")
		sb.WriteString("Call `uniquereq_sessions_list` and pick the session with the traffic you care about.\n")
		if sessionID != "" {
			sb.WriteString("The user already chose session `" + sessionID + "`.\n")
		} else {
			sb.WriteString("If unsure, use `active` (the session currently recording).\n")
		}

		sb.WriteString("\n## Step 2: Run the deduplicator\n")
		sb.WriteString("```\nuniquereq_run(session_id: \"...\", mode: \"normal\")\n```\n")
		sb.WriteString("- Requests collapse by method + path template: `/users/42` and `/users/99` become one row `/users/{id}`\n")
		sb.WriteString("- UUIDs and long hex tokens collapse the same way (`{uuid}`, `{hex}`)\n")
		sb.WriteString("- Static assets (.js, .css, images, fonts) are filtered out by default\n")
		sb.WriteString("- Check the returned stats: `scanned`, `filtered`, `admitted`, `duplicates`\n")
		sb.WriteString("- A high duplicates-to-admitted ratio means polling or retry traffic; the unique rows are the real surface\n")

		sb.WriteString("\n## Step 3: Read the surface\n")
		sb.WriteString("```\nuniquereq_list(query: \"...\", limit: 50)\n```\n")
		if host != "" {
			sb.WriteString("Filter to the target host first: `uniquereq_list(query: \"" + host + "\")`.\n")
		} else {
			sb.WriteString("Use `query` tokens to slice by host, method, or path words (e.g. `query: \"api.example.com post\"`).\n")
		}
		sb.WriteString("Each row carries `fingerprint`, `label` (the path template), `method`, `host`, `status`, and `duplicates`.\n")
		sb.WriteString("Prioritize rows with POST/PUT methods, auth-looking paths, or non-2xx statuses.\n")

		sb.WriteString("\n## Step 4: Drill into rows\n")
		sb.WriteString("- `uniquereq_get_representative(fingerprint, target: \"request\")` shows the first-seen request with headers, ready to replay\n")
		sb.WriteString("- `uniquereq_get_representative(fingerprint, target: \"response\")` shows what the server sent back\n")
		sb.WriteString("- `uniquereq_query_body(expression: \".token // .access_token\", fingerprints: [...])` pulls a field out of many responses at once\n")
		sb.WriteString("- The returned `resource` URI serves the full entry when the capped body is not enough\n")

		sb.WriteString("\n## Step 5: Iterate\n")
		sb.WriteString("- New traffic arrived? Re-run `uniquereq_run`; only fingerprints not yet in the store are admitted\n")
		sb.WriteString("- Want a row re-evaluated? `uniquereq_clear_row(fingerprint)` and run again\n")
		sb.WriteString("- Starting over? `uniquereq_clear_all` resets the store and restarts sequence numbering\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for mapping a session's unique request surface",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
