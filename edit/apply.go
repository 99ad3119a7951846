package edit

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
)

// checkApplicable verifies that g can be applied to a sequence of the given kind and length.
func checkApplicable(kind api.Kind, length int, g *ReplacementGroup) error {
	if err := g.Check(); err != nil {
		return err
	}
	if gKind, ok := g.Kind(); ok && gKind != kind {
		return errors.Wrapf(api.ErrTypeMismatch, "%s replacements can't be applied to %s", gKind, kind)
	}
	if n := g.Len(); n > 0 {
		if last := g.replacements[n-1]; last.End > length {
			return errors.Wrapf(api.ErrInvalidRange, "replacement %s past the end of sequence of length %d", last, length)
		}
	}
	return nil
}

// Apply returns source with every replacement of g spliced in.
//
// It's a single pass that concatenates the untouched slices of source between replacements with the
// replacement values. g must be of source's kind (ErrTypeMismatch) and fit in it (ErrInvalidRange).
func Apply(source api.Sequence, g *ReplacementGroup) (api.Sequence, error) {
	if err := checkApplicable(source.Kind(), source.Len(), g); err != nil {
		return api.Sequence{}, err
	}
	parts := make([]api.Sequence, 0, 2*g.Len()+1)
	cursor := 0
	for _, r := range g.replacements {
		parts = append(parts, source.Slice(cursor, r.Start), r.Value)
		cursor = r.End
	}
	parts = append(parts, source.Slice(cursor, source.Len()))
	return api.Concat(source.Kind(), parts...)
}

// OutputLen returns the length of Apply(source, g) for a source of the given length, without building it.
func OutputLen(length int, g *ReplacementGroup) int {
	for _, r := range g.Replacements() {
		length += r.Delta()
	}
	return length
}

// Inverse returns the group that, applied to Apply(source, g), gives back source.
//
// Each replacement [start, end) -> value becomes [cursor, cursor+len(value)) -> source[start:end], where
// cursor is the position of the replacement in the transformed sequence. Deletions become insertions, and
// consecutive deletions that land on the same transformed position are merged into one insertion (in
// source order), so the round trip is exact. The empty group inverts to the empty group.
func Inverse(source api.Sequence, g *ReplacementGroup) (*ReplacementGroup, error) {
	if err := checkApplicable(source.Kind(), source.Len(), g); err != nil {
		return nil, err
	}
	if g.IsIdentity() {
		return Identity(), nil
	}
	inverse := make([]Replacement, 0, g.Len())
	cursor, prevEnd := 0, 0
	for _, r := range g.replacements {
		cursor += r.Start - prevEnd
		size := r.Value.Len()
		original := source.Slice(r.Start, r.End)
		if n := len(inverse); size == 0 && n > 0 && inverse[n-1].Start == cursor && inverse[n-1].End == cursor {
			merged, err := api.Concat(source.Kind(), inverse[n-1].Value, original)
			if err != nil {
				return nil, err
			}
			inverse[n-1].Value = merged
		} else {
			inverse = append(inverse, Replacement{Start: cursor, End: cursor + size, Value: original, Annotation: r.Annotation})
		}
		cursor += size
		prevEnd = r.End
	}
	b := NewReplacementGroupBuilder()
	for _, r := range inverse {
		if err := b.AddReplacement(r); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// Split cuts a text into the tokens delimited by the span group. The group must partition the whole text.
func Split(text api.Sequence, sg *SpanGroup) (api.Sequence, error) {
	if text.Kind() != api.KindText {
		return api.Sequence{}, errors.Wrapf(api.ErrTypeMismatch, "can only split text, got %s", text.Kind())
	}
	if err := sg.Check(); err != nil {
		return api.Sequence{}, err
	}
	if sg.Total() != text.Len() {
		return api.Sequence{}, errors.Wrapf(api.ErrLengthMismatch, "span group covers %d code points, text has %d", sg.Total(), text.Len())
	}
	tokens := make([]string, sg.Len())
	for ii, s := range sg.spans {
		tokens[ii] = text.Slice(s.Start, s.End).String()
	}
	return api.Tokens(tokens), nil
}

// Join concatenates tokens into a text, validating that the span group has one span per token and that each
// span is as long as its token.
func Join(tokens api.Sequence, sg *SpanGroup) (api.Sequence, error) {
	if tokens.Kind() != api.KindTokens {
		return api.Sequence{}, errors.Wrapf(api.ErrTypeMismatch, "can only join tokens, got %s", tokens.Kind())
	}
	if err := sg.Check(); err != nil {
		return api.Sequence{}, err
	}
	if sg.Len() != tokens.Len() {
		return api.Sequence{}, errors.Wrapf(api.ErrLengthMismatch, "span group has %d spans for %d tokens", sg.Len(), tokens.Len())
	}
	var sb strings.Builder
	for ii, s := range sg.spans {
		tok := tokens.TokenAt(ii)
		if n := utf8.RuneCountInString(tok); n != s.Len() {
			return api.Sequence{}, errors.Wrapf(api.ErrLengthMismatch, "token #%d %q has %d code points, span %s has %d", ii, tok, n, s, s.Len())
		}
		sb.WriteString(tok)
	}
	return api.Text(sb.String()), nil
}
