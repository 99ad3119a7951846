// Package edit implements the description of text transformations: Span/SpanGroup partitions and
// Replacement/ReplacementGroup edits, the engine that applies them to a sequence and derives their inverse,
// and the functions that reverse-engineer them from a tokenizer's output.
//
// All positions are element offsets into an api.Sequence: code points for text, indices for token lists.
package edit

import (
	"fmt"
	"slices"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
)

// Span is the half-open interval [Start, End).
type Span struct {
	Start int
	End   int
}

// NewSpan returns the span [start, end), or ErrInvalidRange if start > end or either is negative.
func NewSpan(start, end int) (Span, error) {
	if start < 0 || end < 0 || start > end {
		return Span{}, errors.Wrapf(api.ErrInvalidRange, "span [%d, %d)", start, end)
	}
	return Span{Start: start, End: end}, nil
}

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// String implements fmt.Stringer.
func (s Span) String() string { return fmt.Sprintf("[%d, %d)", s.Start, s.End) }

// SpanGroup is an ordered, gapless partition of [0, N) into spans, e.g. the boundaries of the tokens a string
// was cut into.
//
// It can only be created by SpanGroupBuilder.Finalize (or SpanGroupFromLengths), and it is read-only.
type SpanGroup struct {
	spans     []Span
	finalized bool
}

// SpanGroupBuilder collects spans for a SpanGroup.
type SpanGroupBuilder struct {
	spans []Span
}

// NewSpanGroupBuilder returns an empty builder.
func NewSpanGroupBuilder() *SpanGroupBuilder {
	return &SpanGroupBuilder{}
}

// Add adds the span [start, end). Order doesn't matter, Finalize sorts.
func (b *SpanGroupBuilder) Add(start, end int) error {
	s, err := NewSpan(start, end)
	if err != nil {
		return err
	}
	b.spans = append(b.spans, s)
	return nil
}

// Finalize sorts the spans and validates that they tile [0, N): it fails with ErrOverlapping if two spans
// intersect, and with ErrNotContiguous if the first doesn't start at 0 or there is a gap.
func (b *SpanGroupBuilder) Finalize() (*SpanGroup, error) {
	spans := slices.Clone(b.spans)
	slices.SortStableFunc(spans, func(x, y Span) int {
		if x.Start != y.Start {
			return x.Start - y.Start
		}
		return x.End - y.End
	})
	for ii, s := range spans {
		if ii == 0 {
			if s.Start != 0 {
				return nil, errors.Wrapf(api.ErrNotContiguous, "first span %s doesn't start at 0", s)
			}
			continue
		}
		prev := spans[ii-1]
		if s.Start < prev.End {
			return nil, errors.Wrapf(api.ErrOverlapping, "spans %s and %s", prev, s)
		}
		if s.Start > prev.End {
			return nil, errors.Wrapf(api.ErrNotContiguous, "gap between spans %s and %s", prev, s)
		}
	}
	return &SpanGroup{spans: spans, finalized: true}, nil
}

// SpanGroupFromLengths returns the span group of consecutive spans with the given lengths.
func SpanGroupFromLengths(lengths []int) (*SpanGroup, error) {
	b := NewSpanGroupBuilder()
	pos := 0
	for _, l := range lengths {
		if err := b.Add(pos, pos+l); err != nil {
			return nil, err
		}
		pos += l
	}
	return b.Finalize()
}

// Check returns ErrNotFinalized if g wasn't created by a builder's Finalize.
func (g *SpanGroup) Check() error {
	if g == nil || !g.finalized {
		return errors.WithStack(api.ErrNotFinalized)
	}
	return nil
}

// Len returns the number of spans.
func (g *SpanGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.spans)
}

// At returns the i-th span.
func (g *SpanGroup) At(i int) Span {
	return g.spans[i]
}

// Spans returns a copy of the spans.
func (g *SpanGroup) Spans() []Span {
	if g == nil {
		return nil
	}
	return slices.Clone(g.spans)
}

// Total returns N, the length of the sequence the group partitions.
func (g *SpanGroup) Total() int {
	if g == nil || len(g.spans) == 0 {
		return 0
	}
	return g.spans[len(g.spans)-1].End
}
