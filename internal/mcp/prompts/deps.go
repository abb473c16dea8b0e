
// Package prompts contains MCP prompt implementations for uniquereq.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	CaptureBaseURL string
}
