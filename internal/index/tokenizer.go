package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// tokenDelimiters defines characters that separate tokens. Braces are
// delimiters so placeholder segments like "{id}" index as "id".
const tokenDelimiters = "/?&=.-_:{}"

// Tokenize splits a string into searchable tokens.
// Splits on: / ? & = . - _ : { }
// Tokens are Unicode case-folded, and tokens < 2 chars are dropped.
func Tokenize(s string) []string {
	// Case folding rather than lowercasing, so queries match indexed text
	// across folded forms ("GROẞE" and "große" both fold to "grosse").
	// A cases.Caser is stateful, so each call gets its own.
	s = cases.Fold().String(s)

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r) || unicode.IsSpace(r)
	})

	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) >= 2 {
			result = append(result, t)
		}
	}

	return result
}
