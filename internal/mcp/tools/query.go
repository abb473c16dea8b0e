package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryBodyInput is the input for uniquereq_query_body.
type QueryBodyInput struct {
	Expression   string   `json:"expression" jsonschema:"required,JQ expression to run against each body"`
	Mode         string   `json:"mode,omitempty" jsonschema:"Dedup mode: normal or graphql. Default: normal"`
	Fingerprints []string `json:"fingerprints,omitempty" jsonschema:"Restrict to these fingerprints (default: all unique rows)"`
	Target       string   `json:"target,omitempty" jsonschema:"Which body to query: response (default) or request"`
	Deduplicate  bool     `json:"deduplicate,omitempty" jsonschema:"Deduplicate extracted values across bodies"`
	MaxResults   int      `json:"max_results,omitempty" jsonschema:"Max values to return (default: DEFAULT_QUERY_LIMIT)"`
}

// QueryBodyOutput is the output for uniquereq_query_body.
type QueryBodyOutput struct {
	Values        []any          `json:"values,omitzero"`
	Errors        []string       `json:"errors,omitzero"`
	RawCount      int            `json:"raw_count"`
	LabelCounts   map[string]int `json:"label_counts,omitempty"`
	BodiesQueried int            `json:"bodies_queried"`
	Hint          string         `json:"hint,omitempty"`
}

// ToolQueryBody runs a JQ expression across the representative bodies of
// unique rows.
func ToolQueryBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
		mode, err := parseModeInput(input.Mode)
		if err != nil {
			return nil, QueryBodyOutput{}, err
		}
		if input.Expression == "" {
			return nil, QueryBodyOutput{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		target := input.Target
		if target == "" {
			target = "response"
		}
		if target != "request" && target != "response" {
			return nil, QueryBodyOutput{}, ErrInvalidInput("target must be request or response")
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = d.Config.DefaultQueryLimit
		}

		// Resolve the set of rows to query.
		fingerprints := input.Fingerprints
		if len(fingerprints) == 0 {
			for _, e := range d.Analyzer.List(mode, "", 0, 0).Entries {
				fingerprints = append(fingerprints, e.Fingerprint)
			}
		}

		var bodies [][]byte
		var labels []string
		for _, fp := range fingerprints {
			unique := d.Analyzer.Get(mode, fp)
			if unique == nil {
				return nil, QueryBodyOutput{}, ErrNotFound("fingerprint", fp)
			}

			entry, err := d.FetchEntry(ctx, unique.SessionID, unique.EntryID)
			if err != nil {
				return nil, QueryBodyOutput{}, WrapCaptureError(err)
			}
			body, _, err := d.DecodeBody(entry, target)
			if err != nil || len(body) == 0 {
				continue
			}
			bodies = append(bodies, body)
			labels = append(labels, fp)
		}

		if len(bodies) == 0 {
			return nil, QueryBodyOutput{
				Hint: "No rows with a usable " + target + " body. Run uniquereq_run first, or try the other target.",
			}, nil
		}

		result, err := d.Query.QueryBodies(bodies, labels, input.Expression, input.Deduplicate, maxResults)
		if err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		output := QueryBodyOutput{
			Values:        result.Values,
			Errors:        result.Errors,
			RawCount:      result.RawCount,
			LabelCounts:   result.LabelCounts,
			BodiesQueried: len(bodies),
		}
		if len(output.Values) == 0 && len(output.Errors) > 0 {
			output.Hint = "No values extracted; check the per-body errors for path mismatches."
		}

		return nil, output, nil
	}
}
