package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waelttf/uniquereq-mcp/internal/fingerprint"
	"github.com/waelttf/uniquereq-mcp/pkg/graphql"
	"github.com/waelttf/uniquereq-mcp/pkg/jsonschema"
	"github.com/waelttf/uniquereq-mcp/pkg/types"
)

// GraphQLInspectInput is the input for uniquereq_graphql_inspect.
type GraphQLInspectInput struct {
	Fingerprints []string `json:"fingerprints,omitempty" jsonschema:"Restrict to these graphql-mode fingerprints (default: all)"`
	IncludeQuery bool     `json:"include_query,omitempty" jsonschema:"Include the raw query text of each operation"`
}

// GraphQLInspectOutput is the output for uniquereq_graphql_inspect.
type GraphQLInspectOutput struct {
	Operations []InspectedOperation `json:"operations,omitzero"`
	Hint       string               `json:"hint,omitempty"`
}

// InspectedOperation describes one unique GraphQL operation.
type InspectedOperation struct {
	Fingerprint     string `json:"fingerprint"`
	Type            string `json:"type"`
	Name            string `json:"name,omitempty"`
	Label           string `json:"label"`
	Host            string `json:"host,omitempty"`
	Duplicates      int    `json:"duplicates"`
	HasVariables    bool   `json:"has_variables"`
	BatchSize       int    `json:"batch_size,omitempty"`
	RawQuery        string `json:"raw_query,omitempty"`
	VariablesSchema any    `json:"variables_schema,omitempty"`
}

// ToolGraphQLInspect parses the representative bodies of graphql-mode rows
// and reports operation details, including an inferred schema for the
// operation's variables.
func ToolGraphQLInspect(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GraphQLInspectInput) (*sdkmcp.CallToolResult, GraphQLInspectOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GraphQLInspectInput) (*sdkmcp.CallToolResult, GraphQLInspectOutput, error) {
		fingerprints := input.Fingerprints
		if len(fingerprints) == 0 {
			for _, e := range d.Analyzer.List(fingerprint.ModeGraphQL, "", 0, 0).Entries {
				fingerprints = append(fingerprints, e.Fingerprint)
			}
		}
		if len(fingerprints) == 0 {
			return nil, GraphQLInspectOutput{
				Hint: "No GraphQL operations in the store. Run uniquereq_run with mode=graphql first.",
			}, nil
		}

		output := GraphQLInspectOutput{
			Operations: make([]InspectedOperation, 0, len(fingerprints)),
		}

		for _, fp := range fingerprints {
			unique := d.Analyzer.Get(fingerprint.ModeGraphQL, fp)
			if unique == nil {
				return nil, GraphQLInspectOutput{}, ErrNotFound("fingerprint", fp)
			}

			entry, err := d.FetchEntry(ctx, unique.SessionID, unique.EntryID)
			if err != nil {
				return nil, GraphQLInspectOutput{}, WrapCaptureError(err)
			}
			body, _, err := d.DecodeBody(entry, "request")
			if err != nil {
				return nil, GraphQLInspectOutput{}, WrapCaptureError(err)
			}

			op := graphql.Extract(body)
			inspected := InspectedOperation{
				Fingerprint:  fp,
				Type:         op.Type,
				Name:         op.Name,
				Label:        unique.Label,
				Host:         unique.Host,
				Duplicates:   unique.Duplicates,
				HasVariables: op.HasVariables,
				BatchSize:    op.BatchSize,
			}
			if input.IncludeQuery {
				inspected.RawQuery = op.RawQuery
			}
			if op.HasVariables {
				inferred := jsonschema.InferFromValues(op.Variables)
				if inferred != nil {
					schema, err := types.ToAny(inferred.Schema)
					if err == nil {
						inspected.VariablesSchema = schema
					}
				}
			}

			output.Operations = append(output.Operations, inspected)
		}

		return nil, output, nil
	}
}
