// Package fingerprint computes stable deduplication identities for captured
// HTTP requests. Two requests fingerprint identically when they hit the same
// route shape (normal mode) or the same GraphQL operation (graphql mode).
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/waelttf/uniquereq-mcp/internal/cache"
	"github.com/waelttf/uniquereq-mcp/internal/normalize"
	"github.com/waelttf/uniquereq-mcp/pkg/graphql"
)

// Mode selects the identity scheme.
type Mode int

const (
	// ModeNormal keys on method + normalized path template.
	ModeNormal Mode = iota
	// ModeGraphQL keys on operation type + operation name.
	ModeGraphQL
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeGraphQL:
		return "graphql"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode string ("normal" or "graphql") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "graphql":
		return ModeGraphQL, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode %q (expected normal or graphql)", s)
	}
}

// Engine computes fingerprints, memoizing path templates across calls.
type Engine struct {
	normalizer *normalize.Normalizer
	templates  *cache.TemplateCache
}

// New creates an Engine. templates may be nil to disable memoization.
func New(normalizer *normalize.Normalizer, templates *cache.TemplateCache) *Engine {
	return &Engine{normalizer: normalizer, templates: templates}
}

// Template returns the normalized path template for a raw path.
func (e *Engine) Template(rawPath string) string {
	if e.templates != nil {
		if tmpl, ok := e.templates.Get(rawPath); ok {
			return tmpl
		}
	}
	tmpl := e.normalizer.Path(rawPath)
	if e.templates != nil {
		e.templates.Put(rawPath, tmpl)
	}
	return tmpl
}

// Request fingerprints a request in normal mode. The returned label is the
// normalized path template.
func (e *Engine) Request(method, rawPath string) (fp, label string) {
	tmpl := e.Template(rawPath)
	return hashKey(strings.ToUpper(method), tmpl), tmpl
}

// Operation fingerprints a GraphQL operation. The returned label is the
// operation's human-readable identity, e.g. "mutation CreateUser".
func (e *Engine) Operation(op graphql.Operation) (fp, label string) {
	return hashKey(op.Type, op.Name), op.Label()
}

// hashKey derives a fingerprint from key components. Components are joined
// with NUL so ("a", "bc") and ("ab", "c") never collide, then hashed so the
// identity is fixed-width and safe to embed in URIs.
func hashKey(components ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(components, "\x00")))
	return hex.EncodeToString(sum[:])[:16]
}
