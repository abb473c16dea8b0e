package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/internal/mcp/tools"
)

// Resource URI scheme: uniquereq://
// Supported URIs:
//   uniquereq://representative/{mode}/{fingerprint}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "uniquereq://representative/{mode}/{fingerprint}",
		Name:        "Representative Entry",
		Description: "Full first-seen capture entry for a unique fingerprint, with headers and both decoded bodies. Use uniquereq_get_representative first for a size-capped view.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceRepresentative)
}

func (s *Server) handleResourceRepresentative(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	mode, err := fingerprint.ParseMode(params["mode"])
	if err != nil {
		return nil, tools.ErrInvalidInput(err.Error())
	}

	unique := s.deps.Analyzer.Get(mode, params["fingerprint"])
	if unique == nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.deps.FetchEntry(ctx, unique.SessionID, unique.EntryID)
	if err != nil {
		return nil, tools.WrapCaptureError(err)
	}

	content := map[string]any{
		"row": unique,
		"request": map[string]any{
			"method":  entry.Request.Method,
			"url":     entry.URL,
			"headers": entry.Request.Headers,
		},
	}
	if body, contentType, err := s.deps.DecodeBody(entry, "request"); err == nil && len(body) > 0 {
		content["request"].(map[string]any)["content_type"] = contentType
		content["request"].(map[string]any)["body"] = displayBody(body)
	}
	if entry.Response != nil {
		resp := map[string]any{
			"status_code": entry.Response.StatusCode,
			"status_text": entry.Response.StatusText,
			"headers":     entry.Response.Headers,
		}
		if body, contentType, err := s.deps.DecodeBody(entry, "response"); err == nil && len(body) > 0 {
			resp["content_type"] = contentType
			resp["body"] = displayBody(body)
		}
		content["response"] = resp
	}

	return toResourceResult(req.Params.URI, content)
}

// parseResourceURI extracts parameters from a uniquereq:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, "uniquereq://") {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected uniquereq://")
	}

	path := strings.TrimPrefix(uri, "uniquereq://")
	parts := strings.Split(path, "/")

	if len(parts) == 0 {
		return nil, tools.ErrInvalidInput("empty resource path")
	}

	params := make(map[string]string)
	resourceType := parts[0]

	switch resourceType {
	case "representative":
		if len(parts) < 3 {
			return nil, tools.ErrInvalidInput("representative URI requires mode and fingerprint")
		}
		params["mode"] = parts[1]
		params["fingerprint"] = parts[2]

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

// displayBody returns the body as text, or a placeholder for binary content.
func displayBody(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return fmt.Sprintf("(binary body, %d bytes)", len(body))
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
