package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClearRowInput is the input for uniquereq_clear_row.
type ClearRowInput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"required,Fingerprint to forget"`
	Mode        string `json:"mode,omitempty" jsonschema:"Dedup mode: normal or graphql. Default: normal"`
}

// ClearRowOutput is the output for uniquereq_clear_row.
type ClearRowOutput struct {
	Cleared bool   `json:"cleared"`
	Hint    string `json:"hint,omitempty"`
}

// ToolClearRow forgets a single fingerprint so its next occurrence is
// admitted fresh.
func ToolClearRow(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClearRowInput) (*sdkmcp.CallToolResult, ClearRowOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClearRowInput) (*sdkmcp.CallToolResult, ClearRowOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, ClearRowOutput{}, err
		}
		if input.Fingerprint == "" {
			return nil, ClearRowOutput{}, ErrInvalidInput("fingerprint is required")
		}

		cleared := d.Analyzer.ClearRow(mode, input.Fingerprint)
		output := ClearRowOutput{Cleared: cleared}
		if !cleared {
			output.Hint = "Fingerprint was not in the store; nothing to clear."
		} else {
			output.Hint = "The next matching request will be admitted as new."
		}
		return nil, output, nil
	}
}

// ClearAllInput is the input for uniquereq_clear_all.
type ClearAllInput struct {
	Mode string `json:"mode,omitempty" jsonschema:"Dedup mode: normal or graphql. Default: normal"`
}

// ClearAllOutput is the output for uniquereq_clear_all.
type ClearAllOutput struct {
	Cleared int    `json:"cleared"`
	Hint    string `json:"hint,omitempty"`
}

// ToolClearAll resets a mode's dedup state.
func ToolClearAll(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClearAllInput) (*sdkmcp.CallToolResult, ClearAllOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ClearAllInput) (*sdkmcp.CallToolResult, ClearAllOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, ClearAllOutput{}, err
		}

		cleared := d.Analyzer.List(mode, "", 0, 0).Total
		d.Analyzer.ClearAll(mode)

		return nil, ClearAllOutput{
			Cleared: cleared,
			Hint:    "Sequence numbering restarts at 1 on the next run.",
		}, nil
	}
}
