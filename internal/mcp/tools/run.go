package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/internal/analyzer"
)

// RunInput is the input for uniquereq_run.
type RunInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session ID to scan (default: active)"`
	Mode      string `json:"mode,omitempty" jsonschema:"Dedup mode: normal (method + path template) or graphql (operation identity). Default: normal"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max entries to scan, newest first (default: MAX_RUN_ENTRIES)"`
	AllowGet  *bool  `json:"allow_get,omitempty" jsonschema:"Override filter: admit GET requests (normal mode only)"`
	AllowPost *bool  `json:"allow_post,omitempty" jsonschema:"Override filter: admit POST requests (normal mode only)"`
}

// RunOutput is the output for uniquereq_run.
type RunOutput struct {
	Stats *analyzer.RunStats `json:"stats"`
	Hint  string             `json:"hint,omitempty"`
}

// ToolRun scans a session and admits unique requests into the dedup store.
func ToolRun(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input RunInput) (*sdkmcp.CallToolResult, RunOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input RunInput) (*sdkmcp.CallToolResult, RunOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, RunOutput{}, err
		}

		sessionID := input.SessionID
		if sessionID == "" {
			sessionID = "active"
		}

		opts := analyzer.RunOptions{Mode: mode, Limit: input.Limit}
		if input.AllowGet != nil || input.AllowPost != nil {
			// Overrides adjust the configured filter, they do not replace it,
			// so a custom extension list stays in effect.
			f := d.Analyzer.Filter()
			if input.AllowGet != nil {
				f.AllowGet = *input.AllowGet
			}
			if input.AllowPost != nil {
				f.AllowPost = *input.AllowPost
			}
			opts.Filter = &f
		}

		stats, err := d.Analyzer.Run(ctx, sessionID, opts)
		if err != nil {
			return nil, RunOutput{}, WrapCaptureError(err)
		}

		hint := ""
		if stats.Admitted > 0 {
			hint = "New unique requests admitted. Use uniquereq_list to browse them."
		}

		return nil, RunOutput{Stats: stats, Hint: hint}, nil
	}
}
