package operators

import (
	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/edit"
	"github.com/gomlx/go-textalign/labels"
	"github.com/pkg/errors"
)

func checkLen(direction string, got, want int) error {
	if got != want {
		return errors.Wrapf(api.ErrLengthMismatch, "%s: aligner expects %d labels, got %d", direction, want, got)
	}
	return nil
}

// ReplacementAligner aligns a transformation described by a ReplacementGroup: text -> text or list -> list.
type ReplacementAligner struct {
	forward, inverse *edit.ReplacementGroup
	inLen, outLen    int

	forwardReduce, backwardReduce labels.ReduceFunc
}

// Compile time assert that ReplacementAligner implements api.Aligner.
var _ api.Aligner = &ReplacementAligner{}

// ApplyReplacements applies g to in and returns the output with its aligner.
// Labels are mapped with forwardReduce going forward, and with backwardReduce (over the inverse group) going back.
func ApplyReplacements(in api.Sequence, g *edit.ReplacementGroup, forwardReduce, backwardReduce labels.ReduceFunc) (api.Sequence, *ReplacementAligner, error) {
	out, err := edit.Apply(in, g)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	inverse, err := edit.Inverse(in, g)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return out, &ReplacementAligner{
		forward:        g,
		inverse:        inverse,
		inLen:          in.Len(),
		outLen:         out.Len(),
		forwardReduce:  forwardReduce,
		backwardReduce: backwardReduce,
	}, nil
}

// Forward implements api.Aligner.
func (a *ReplacementAligner) Forward(l []int) ([]int, error) {
	if err := checkLen("forward", len(l), a.inLen); err != nil {
		return nil, err
	}
	return labels.PropagateByReplacementGroup(l, a.forward, a.forwardReduce)
}

// Backward implements api.Aligner.
func (a *ReplacementAligner) Backward(l []int) ([]int, error) {
	if err := checkLen("backward", len(l), a.outLen); err != nil {
		return nil, err
	}
	return labels.PropagateByReplacementGroup(l, a.inverse, a.backwardReduce)
}

// InputLen implements api.Aligner.
func (a *ReplacementAligner) InputLen() int { return a.inLen }

// OutputLen implements api.Aligner.
func (a *ReplacementAligner) OutputLen() int { return a.outLen }

// Replacements returns the forward group.
func (a *ReplacementAligner) Replacements() *edit.ReplacementGroup { return a.forward }

// TokenizeAligner aligns a text with the tokens it was cut into.
//
// The tokenizer may drop parts of the text (typically whitespace): those are the deletions of a replacement
// group, and the cleaned text is partitioned by a span group, one span per token.
type TokenizeAligner struct {
	deletions, inverse *edit.ReplacementGroup
	spans              *edit.SpanGroup
	inLen              int

	forwardReduce, backwardReduce labels.ReduceFunc
}

// Compile time assert that TokenizeAligner implements api.Aligner.
var _ api.Aligner = &TokenizeAligner{}

// Tokenized reconciles text with the tokens a tokenizer produced and returns them as a sequence with its aligner.
//
// surfaces are the tokens as they appear in text. They are usually the tokens themselves, but a tokenizer that
// decorates its output (e.g. SentencePiece's "▁") passes the undecorated forms; len(surfaces) must be len(tokens).
// It fails with ErrIncompatibleTokens if the surfaces can't be located in order in text.
func Tokenized(text api.Sequence, tokens, surfaces []string, forwardReduce, backwardReduce labels.ReduceFunc) (api.Sequence, *TokenizeAligner, error) {
	if len(tokens) != len(surfaces) {
		return api.Sequence{}, nil, errors.Wrapf(api.ErrLengthMismatch, "%d tokens with %d surface forms", len(tokens), len(surfaces))
	}
	s := text.String()
	deletions, err := edit.GenReplacementGroup(s, surfaces)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	cleaned, err := edit.Apply(text, deletions)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	spans, err := edit.GenSpanGroup(cleaned.String(), surfaces)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	inverse, err := edit.Inverse(text, deletions)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return api.Tokens(tokens), &TokenizeAligner{
		deletions:      deletions,
		inverse:        inverse,
		spans:          spans,
		inLen:          text.Len(),
		forwardReduce:  forwardReduce,
		backwardReduce: backwardReduce,
	}, nil
}

// Forward implements api.Aligner: text labels -> token labels.
func (a *TokenizeAligner) Forward(l []int) ([]int, error) {
	if err := checkLen("forward", len(l), a.inLen); err != nil {
		return nil, err
	}
	kept, err := labels.PropagateByReplacementGroup(l, a.deletions, labels.NotEntity)
	if err != nil {
		return nil, err
	}
	return labels.ReduceBySpanGroup(kept, a.spans, a.forwardReduce)
}

// Backward implements api.Aligner: token labels -> text labels. Dropped parts of the text get the labels
// backwardReduce gives to an insertion, api.NotEntity for the reductions of the labels package.
func (a *TokenizeAligner) Backward(l []int) ([]int, error) {
	if err := checkLen("backward", len(l), a.spans.Len()); err != nil {
		return nil, err
	}
	expanded, err := labels.ExpandBySpanGroup(l, a.spans)
	if err != nil {
		return nil, err
	}
	return labels.PropagateByReplacementGroup(expanded, a.inverse, a.backwardReduce)
}

// InputLen implements api.Aligner.
func (a *TokenizeAligner) InputLen() int { return a.inLen }

// OutputLen implements api.Aligner.
func (a *TokenizeAligner) OutputLen() int { return a.spans.Len() }

// Spans returns the span group of the tokens over the cleaned text.
func (a *TokenizeAligner) Spans() *edit.SpanGroup { return a.spans }

// JoinAligner aligns tokens with their concatenation.
type JoinAligner struct {
	spans  *edit.SpanGroup
	reduce labels.ReduceFunc
}

// Compile time assert that JoinAligner implements api.Aligner.
var _ api.Aligner = &JoinAligner{}

// Joined concatenates tokens into a text and returns it with its aligner. Going back, the labels of each
// token's code points are reduced with reduce.
func Joined(tokens api.Sequence, reduce labels.ReduceFunc) (api.Sequence, *JoinAligner, error) {
	list := tokens.TokenList()
	lengths := make([]int, len(list))
	for ii, tok := range list {
		lengths[ii] = len([]rune(tok))
	}
	spans, err := edit.SpanGroupFromLengths(lengths)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	text, err := edit.Join(tokens, spans)
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return text, &JoinAligner{spans: spans, reduce: reduce}, nil
}

// Forward implements api.Aligner: token labels -> text labels.
func (a *JoinAligner) Forward(l []int) ([]int, error) {
	return labels.ExpandBySpanGroup(l, a.spans)
}

// Backward implements api.Aligner: text labels -> token labels.
func (a *JoinAligner) Backward(l []int) ([]int, error) {
	return labels.ReduceBySpanGroup(l, a.spans, a.reduce)
}

// InputLen implements api.Aligner.
func (a *JoinAligner) InputLen() int { return a.spans.Len() }

// OutputLen implements api.Aligner.
func (a *JoinAligner) OutputLen() int { return a.spans.Total() }

// ElementwiseAligner aligns a sequence with another of the same length, element by element, e.g. tokens
// with their ids. Labels are copied both ways.
type ElementwiseAligner struct {
	n int
}

// Compile time assert that ElementwiseAligner implements api.Aligner.
var _ api.Aligner = &ElementwiseAligner{}

// NewElementwiseAligner returns the aligner of two sequences of length n.
func NewElementwiseAligner(n int) *ElementwiseAligner {
	return &ElementwiseAligner{n: n}
}

// Forward implements api.Aligner.
func (a *ElementwiseAligner) Forward(l []int) ([]int, error) {
	if err := checkLen("forward", len(l), a.n); err != nil {
		return nil, err
	}
	return labels.PropagateByReplacementGroup(l, edit.Identity(), labels.NotEntity)
}

// Backward implements api.Aligner.
func (a *ElementwiseAligner) Backward(l []int) ([]int, error) {
	if err := checkLen("backward", len(l), a.n); err != nil {
		return nil, err
	}
	return labels.PropagateByReplacementGroup(l, edit.Identity(), labels.NotEntity)
}

// InputLen implements api.Aligner.
func (a *ElementwiseAligner) InputLen() int { return a.n }

// OutputLen implements api.Aligner.
func (a *ElementwiseAligner) OutputLen() int { return a.n }
