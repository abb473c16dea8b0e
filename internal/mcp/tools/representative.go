package tools

import (
	"context"
	"fmt"
	"unicode/utf8"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/pkg/types"
)

// GetRepresentativeInput is the input for uniquereq_get_representative.
type GetRepresentativeInput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"required,Fingerprint from uniquereq_list"`
	Mode        string `json:"mode,omitempty" jsonschema:"Dedup mode: normal or graphql. Default: normal"`
	Target      string `json:"target,omitempty" jsonschema:"Which body to include: request (default) or response"`
	MaxBytes    int    `json:"max_bytes,omitempty" jsonschema:"Max body bytes to return (default: 65536)"`
}

// GetRepresentativeOutput is the output for uniquereq_get_representative.
type GetRepresentativeOutput struct {
	Row         *types.UniqueRow   `json:"row"`
	Headers     [][]string         `json:"headers,omitzero"`
	ContentType string             `json:"content_type,omitempty"`
	Body        string             `json:"body,omitempty"`
	BodyBytes   int                `json:"body_bytes,omitempty"`
	Truncated   bool               `json:"truncated,omitempty"`
	Resource    *types.ResourceRef `json:"resource,omitempty"`
}

// defaultRepresentativeMaxBytes caps body output for tool responses.
const defaultRepresentativeMaxBytes = 65536

// ToolGetRepresentative returns the first-seen entry for a fingerprint,
// including enough of the raw request to replay it.
func ToolGetRepresentative(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetRepresentativeInput) (*sdkmcp.CallToolResult, GetRepresentativeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetRepresentativeInput) (*sdkmcp.CallToolResult, GetRepresentativeOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, GetRepresentativeOutput{}, err
		}
		if input.Fingerprint == "" {
			return nil, GetRepresentativeOutput{}, ErrInvalidInput("fingerprint is required")
		}

		target := input.Target
		if target == "" {
			target = "request"
		}
		if target != "request" && target != "response" {
			return nil, GetRepresentativeOutput{}, ErrInvalidInput("target must be request or response")
		}

		unique := d.Analyzer.Get(mode, input.Fingerprint)
		if unique == nil {
			return nil, GetRepresentativeOutput{}, ErrNotFound("fingerprint", input.Fingerprint)
		}

		entry, err := d.FetchEntry(ctx, unique.SessionID, unique.EntryID)
		if err != nil {
			return nil, GetRepresentativeOutput{}, WrapCaptureError(err)
		}

		body, contentType, err := d.DecodeBody(entry, target)
		if err != nil {
			return nil, GetRepresentativeOutput{}, WrapCaptureError(err)
		}

		maxBytes := input.MaxBytes
		if maxBytes <= 0 {
			maxBytes = defaultRepresentativeMaxBytes
		}
		truncated := false
		display := body
		if len(display) > maxBytes {
			display = display[:maxBytes]
			truncated = true
		}

		row := toUniqueRow(*unique)
		output := GetRepresentativeOutput{
			Row:         &row,
			ContentType: contentType,
			BodyBytes:   len(body),
			Truncated:   truncated,
			Resource: &types.ResourceRef{
				URI:  fmt.Sprintf("uniquereq://representative/%s/%s", mode, input.Fingerprint),
				MIME: MimeJSON,
				Hint: "Full representative entry as an MCP resource",
			},
		}
		if target == "request" {
			output.Headers = entry.Request.Headers
		} else if entry.Response != nil {
			output.Headers = entry.Response.Headers
		}
		if utf8.Valid(display) {
			output.Body = string(display)
		} else {
			output.Body = fmt.Sprintf("(binary body, %d bytes)", len(body))
		}

		return nil, output, nil
	}
}
