package edit

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
)

// tokenMatch is the location of a token in the text, in code points.
type tokenMatch struct {
	start, end int
}

// locateTokens finds each token in text with a forward search starting where the previous match ended.
// It fails with ErrIncompatibleTokens if a token can't be found.
func locateTokens(text string, tokens []string) ([]tokenMatch, error) {
	matches := make([]tokenMatch, len(tokens))
	bytePos, runePos := 0, 0
	for ii, tok := range tokens {
		idx := findSubstring(text, tok, bytePos)
		if idx < 0 {
			return nil, errors.Wrapf(api.ErrIncompatibleTokens,
				"token #%d %q not found in %q after position %d", ii, tok, text, runePos)
		}
		start := runePos + utf8.RuneCountInString(text[bytePos:idx])
		end := start + utf8.RuneCountInString(tok)
		matches[ii] = tokenMatch{start: start, end: end}
		bytePos, runePos = idx+len(tok), end
	}
	return matches, nil
}

// findSubstring finds the first occurrence of substr in s starting from byte position start.
// Returns the byte position of the match, or -1 if not found.
func findSubstring(s, substr string, start int) int {
	if start > len(s) {
		return -1
	}
	idx := strings.Index(s[start:], substr)
	if idx < 0 {
		return -1
	}
	return start + idx
}

// GenSpanGroup returns the span group of the tokens in text.
//
// The tokens must reconstruct text exactly when concatenated, otherwise it fails with ErrIncompatibleTokens.
func GenSpanGroup(text string, tokens []string) (*SpanGroup, error) {
	matches, err := locateTokens(text, tokens)
	if err != nil {
		return nil, err
	}
	b := NewSpanGroupBuilder()
	cursor := 0
	for ii, m := range matches {
		if m.start != cursor {
			return nil, errors.Wrapf(api.ErrIncompatibleTokens,
				"token #%d %q found at %d, expected at %d: tokens don't reconstruct %q", ii, tokens[ii], m.start, cursor, text)
		}
		if err := b.Add(m.start, m.end); err != nil {
			return nil, err
		}
		cursor = m.end
	}
	if total := utf8.RuneCountInString(text); cursor != total {
		return nil, errors.Wrapf(api.ErrIncompatibleTokens,
			"tokens cover %d of the %d code points of %q", cursor, total, text)
	}
	return b.Finalize()
}

// GenReplacementGroup reverse-engineers the edits a tokenizer made to text: whatever it skipped between
// (or after) the tokens becomes a deletion.
//
// Applying the result to text gives the concatenation of the tokens. It fails with ErrIncompatibleTokens if
// a token can't be located in order.
func GenReplacementGroup(text string, tokens []string) (*ReplacementGroup, error) {
	matches, err := locateTokens(text, tokens)
	if err != nil {
		return nil, err
	}
	b := NewReplacementGroupBuilder()
	cursor := 0
	for _, m := range matches {
		if m.start > cursor {
			if err := b.AddText(cursor, m.start, ""); err != nil {
				return nil, err
			}
		}
		cursor = m.end
	}
	if total := utf8.RuneCountInString(text); total > cursor {
		if err := b.AddText(cursor, total, ""); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}
