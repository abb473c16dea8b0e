package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/pkg/types"
)

// ListInput is the input for uniquereq_list.
type ListInput struct {
	Mode   string `json:"mode,omitempty" jsonschema:"Dedup mode: normal or graphql. Default: normal"`
	Query  string `json:"query,omitempty" jsonschema:"Free-text token filter over label, host, and method (tokens ANDed)"`
	Offset int    `json:"offset,omitempty" jsonschema:"Pagination offset"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max rows to return (default: DEFAULT_LIST_LIMIT)"`
}

// ListOutput is the output for uniquereq_list.
type ListOutput struct {
	Rows  []types.UniqueRow `json:"rows,omitzero"`
	Total int               `json:"total"`
	Hint  string            `json:"hint,omitempty"`
}

// ToolList lists unique requests in admission order.
func ToolList(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListInput) (*sdkmcp.CallToolResult, ListOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListInput) (*sdkmcp.CallToolResult, ListOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, ListOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultListLimit
		}

		result := d.Analyzer.List(mode, input.Query, input.Offset, limit)

		output := ListOutput{
			Rows:  toUniqueRows(result.Entries),
			Total: result.Total,
		}
		if output.Total == 0 {
			output.Hint = "Store is empty. Run uniquereq_run first to scan a session."
		} else if output.Total > input.Offset+len(output.Rows) {
			output.Hint = "More rows available. Increase offset to page through."
		}

		return nil, output, nil
	}
}
