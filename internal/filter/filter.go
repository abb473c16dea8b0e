// Package filter decides which captured requests participate in
// deduplication. Filtering happens on the normalized path, so placeholder
// segments never hide a static asset extension.
package filter

import (
	"strings"
)

// DefaultExtensions are the static asset extensions excluded by default.
var DefaultExtensions = []string{
	".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
	".woff", ".woff2", ".ttf", ".eot", ".map", ".json",
}

// Config controls which requests are admitted into a dedup run.
type Config struct {
	AllowGet                bool     `json:"allow_get"`
	AllowPost               bool     `json:"allow_post"`
	ExcludeStaticExtensions bool     `json:"exclude_static_extensions"`
	Extensions              []string `json:"extensions,omitempty"`
}

// DefaultConfig admits GET and POST and excludes static asset extensions.
func DefaultConfig() Config {
	return Config{
		AllowGet:                true,
		AllowPost:               true,
		ExcludeStaticExtensions: true,
	}
}

// extensions returns the active extension list.
func (c Config) extensions() []string {
	if len(c.Extensions) > 0 {
		return c.Extensions
	}
	return DefaultExtensions
}

// Accepts reports whether a request with the given method and normalized
// path participates in deduplication.
//
// GET is rejected when AllowGet is false and POST when AllowPost is false;
// any other method always passes the method check. When
// ExcludeStaticExtensions is set, paths whose final segment ends in one of
// the configured extensions (case-insensitive) are rejected.
func (c Config) Accepts(method, normalizedPath string) bool {
	switch strings.ToUpper(method) {
	case "GET":
		if !c.AllowGet {
			return false
		}
	case "POST":
		if !c.AllowPost {
			return false
		}
	}

	if c.ExcludeStaticExtensions && hasStaticExtension(normalizedPath, c.extensions()) {
		return false
	}

	return true
}

// hasStaticExtension checks the final path segment against the extension list.
func hasStaticExtension(path string, extensions []string) bool {
	segment := path
	if idx := strings.LastIndexByte(path, '/'); idx != -1 {
		segment = path[idx+1:]
	}
	if segment == "" {
		return false
	}

	lower := strings.ToLower(segment)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
