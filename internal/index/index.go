// Package index maintains an inverted token index over admitted unique
// entries, backed by roaring bitmaps keyed by admission sequence number.
// It powers substring-free token search in listings.
package index

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index maps tokens to the set of sequence numbers whose entries contain them.
type Index struct {
	mu     sync.RWMutex
	tokens map[string]*roaring.Bitmap
	all    *roaring.Bitmap
}

// New creates an empty index.
func New() *Index {
	return &Index{
		tokens: make(map[string]*roaring.Bitmap),
		all:    roaring.New(),
	}
}

// Add indexes an entry under its sequence number. Each field is tokenized
// independently; typical fields are the label, host, and method.
func (x *Index) Add(seq uint32, fields ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.all.Add(seq)
	for _, field := range fields {
		for _, token := range Tokenize(field) {
			bm, ok := x.tokens[token]
			if !ok {
				bm = roaring.New()
				x.tokens[token] = bm
			}
			bm.Add(seq)
		}
	}
}

// Remove drops a sequence number from the index.
func (x *Index) Remove(seq uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.all.Remove(seq)
	for token, bm := range x.tokens {
		bm.Remove(seq)
		if bm.IsEmpty() {
			delete(x.tokens, token)
		}
	}
}

// Query returns the sequence numbers matching a free-text query: AND across
// query tokens. An empty query (or one with no indexable tokens) matches
// everything.
func (x *Index) Query(text string) *roaring.Bitmap {
	x.mu.RLock()
	defer x.mu.RUnlock()

	queryTokens := Tokenize(text)
	if len(queryTokens) == 0 {
		return x.all.Clone()
	}

	result := x.all.Clone()
	for _, token := range queryTokens {
		bm, ok := x.tokens[token]
		if !ok {
			return roaring.New()
		}
		result.And(bm)
	}
	return result
}

// Len returns the number of indexed entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return int(x.all.GetCardinality())
}

// Reset empties the index.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tokens = make(map[string]*roaring.Bitmap)
	x.all = roaring.New()
}
