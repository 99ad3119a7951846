// Package operators holds the plumbing shared by the concrete operators in its sub-packages: the Base
// struct with the declared kinds, strict option decoding, conversion of regular expression matches into
// replacements, and the aligners for each shape of transformation.
package operators

import (
	"bytes"
	"encoding/json"
	"regexp"
	"unicode/utf8"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/edit"
	"github.com/pkg/errors"
)

// Base implements the Name and declared kinds part of api.Operator.
type Base struct {
	name    string
	in, out api.Kind
}

// NewBase returns a Base for an operator registered as name, transforming in into out sequences.
func NewBase(name string, in, out api.Kind) Base {
	return Base{name: name, in: in, out: out}
}

// Name implements api.Operator.
func (b Base) Name() string { return b.name }

// InputKind implements api.Operator.
func (b Base) InputKind() api.Kind { return b.in }

// OutputKind implements api.Operator.
func (b Base) OutputKind() api.Kind { return b.out }

// CheckInput returns ErrTypeMismatch if in is not of the declared input kind.
func (b Base) CheckInput(in api.Sequence) error {
	if in.Kind() != b.in {
		return errors.Wrapf(api.ErrTypeMismatch, "operator %s takes %s, got %s", b.name, b.in, in.Kind())
	}
	return nil
}

// DecodeOptions decodes raw JSON options into v, rejecting unknown fields.
// Empty raw leaves v untouched, so callers can set defaults beforehand.
func DecodeOptions(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "failed to decode options %s", raw)
	}
	return nil
}

// Match is one match of a regular expression, positioned in code points.
type Match struct {
	Text       string
	Start, End int
}

// MatchReplacements returns a text replacement for each match of re in text for which replace returns ok and
// a different value. Positions are converted from the byte offsets of regexp to code points.
func MatchReplacements(text string, re *regexp.Regexp, replace func(m Match) (value string, ok bool)) (*edit.ReplacementGroup, error) {
	b := edit.NewReplacementGroupBuilder()
	bytePos, runePos := 0, 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		m := Match{Text: text[loc[0]:loc[1]]}
		m.Start = runePos + utf8.RuneCountInString(text[bytePos:loc[0]])
		m.End = m.Start + utf8.RuneCountInString(m.Text)
		bytePos, runePos = loc[1], m.End
		value, ok := replace(m)
		if !ok || value == m.Text {
			continue
		}
		if err := b.AddAnnotated(m.Start, m.End, api.Text(value), re.String()); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// RuneReplacements returns a text replacement for each code point of text for which replace returns ok
// and a different value.
func RuneReplacements(text string, replace func(r rune) (value string, ok bool)) (*edit.ReplacementGroup, error) {
	b := edit.NewReplacementGroupBuilder()
	pos := 0
	for _, r := range text {
		if value, ok := replace(r); ok && value != string(r) {
			if err := b.AddText(pos, pos+1, value); err != nil {
				return nil, err
			}
		}
		pos++
	}
	return b.Finalize()
}
