// Package normalize collapses volatile path segments into stable placeholders
// so that structurally-identical request paths produce identical templates.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMinHexLen is the minimum length for a segment to be classified as
// an opaque hex identifier. Short hex-looking words ("cafe", "added") stay
// literal.
const DefaultMinHexLen = 16

var (
	uuidPattern    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	numericPattern = regexp.MustCompile(`^\d+$`)
)

// Normalizer rewrites raw request paths into path templates.
type Normalizer struct {
	minHexLen  int
	hexPattern *regexp.Regexp
}

// New creates a Normalizer. minHexLen <= 0 selects DefaultMinHexLen.
func New(minHexLen int) *Normalizer {
	if minHexLen <= 0 {
		minHexLen = DefaultMinHexLen
	}
	return &Normalizer{
		minHexLen:  minHexLen,
		hexPattern: regexp.MustCompile(fmt.Sprintf(`^[0-9a-f]{%d,}$`, minHexLen)),
	}
}

// Segment classifies a single path segment:
//   - UUID shape (8-4-4-4-12, case-insensitive) -> "{uuid}"
//   - all digits -> "{id}"
//   - hex string of minHexLen+ chars -> "{hex}"
//
// Anything else is returned unchanged, case preserved. Placeholders are not
// themselves numeric, UUID, or hex shaped, so Segment is idempotent.
func (n *Normalizer) Segment(segment string) string {
	lower := strings.ToLower(segment)

	// Check UUID first (most specific)
	if uuidPattern.MatchString(lower) {
		return "{uuid}"
	}

	if numericPattern.MatchString(segment) {
		return "{id}"
	}

	if n.hexPattern.MatchString(lower) {
		return "{hex}"
	}

	return segment
}

// Path rewrites a raw request path into its template form.
//
// The query string is stripped, each segment is classified independently,
// a trailing slash is dropped unless the whole path is "/", and an empty
// path normalizes to "/". The result is stable: Path(Path(p)) == Path(p).
func (n *Normalizer) Path(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if idx := strings.IndexByte(path, '#'); idx != -1 {
		path = path[:idx]
	}

	if path == "" || path == "/" {
		return "/"
	}

	// Trailing slash carries no structural information
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" {
			segments[i] = n.Segment(seg)
		}
	}
	return strings.Join(segments, "/")
}

// QueryKeys returns the query parameter names of a raw path, in order of
// first appearance. Values are never returned; callers use keys for
// filtering and display only.
func QueryKeys(path string) []string {
	idx := strings.IndexByte(path, '?')
	if idx == -1 || idx == len(path)-1 {
		return nil
	}

	rawQuery := path[idx+1:]
	if h := strings.IndexByte(rawQuery, '#'); h != -1 {
		rawQuery = rawQuery[:h]
	}

	var keys []string
	seen := make(map[string]bool)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if eq := strings.IndexByte(pair, '='); eq != -1 {
			key = pair[:eq]
		}
		if key != "" && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	return keys
}
