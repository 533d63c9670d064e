// Package splitter divides sanitised report text into overlapping
// passages using a recursive character strategy: paragraph breaks
// first, then line breaks, then spaces, then hard character cuts.
package splitter

import (
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/lydlabs/ragcli/internal/core/ports/driven"
)

// Ensure Recursive implements the interface.
var _ driven.Splitter = (*Recursive)(nil)

// DefaultChunkSize is the default number of characters per passage.
const DefaultChunkSize = 400

// DefaultChunkOverlap is the default number of overlapping characters
// shared by adjacent passages.
const DefaultChunkOverlap = 50

// separators is the split-point hierarchy, highest level of
// organisation first, ending with the hard character cut.
var separators = []string{"\n\n", "\n", " ", ""}

// Recursive splits text with a recursive character splitter.
type Recursive struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Recursive)

// WithChunkSize sets the passage size in characters.
func WithChunkSize(size int) Option {
	return func(r *Recursive) {
		if size > 0 {
			r.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between passages in characters.
func WithOverlap(overlap int) Option {
	return func(r *Recursive) {
		if overlap >= 0 {
			r.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Recursive {
	r := &Recursive{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(r)
	}

	// Overlap must leave room for new content in every passage
	if r.overlap >= r.chunkSize {
		r.overlap = r.chunkSize / 4
	}

	return r
}

// Split returns the ordered passages of text. Empty input yields no
// passages; the result is a pure function of the input.
func (r *Recursive) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	ts := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(r.chunkSize),
		textsplitter.WithChunkOverlap(r.overlap),
		textsplitter.WithSeparators(separators),
	)

	return ts.SplitText(text)
}
