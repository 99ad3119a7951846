// Package normalize implements text -> text operators that normalize an utterance while keeping track of
// every edit: lowercasing, accent stripping, width folding, whitespace insertion and merging.
package normalize

import (
	"encoding/json"
	"regexp"
	"unicode"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Registry names.
const (
	LowercaseName            = "Lowercase"
	StripAccentsName         = "StripAccents"
	FullwidthToHalfwidthName = "FullwidthToHalfwidth"
)

// preserving keeps per-character labels for same-length edits.
var preserving = labels.Preserving(labels.MostCommon)

// Lowercase replaces every run of upper-case letters with its lower-cased form.
type Lowercase struct {
	operators.Base
}

// Compile time assert that Lowercase implements api.Operator.
var _ api.Operator = &Lowercase{}

var upperRunRE = regexp.MustCompile(`\p{Lu}+`)

// NewLowercase returns the Lowercase operator.
func NewLowercase() *Lowercase {
	return &Lowercase{Base: operators.NewBase(LowercaseName, api.KindText, api.KindText)}
}

// NewLowercaseFromOptions implements the registry factory; Lowercase takes no options.
func NewLowercaseFromOptions(raw json.RawMessage) (api.Operator, error) {
	if err := operators.DecodeOptions(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return NewLowercase(), nil
}

// Transform implements api.Operator.
func (op *Lowercase) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	// Casers are stateful, one per call.
	lower := cases.Lower(language.Und)
	g, err := operators.MatchReplacements(in.String(), upperRunRE, func(m operators.Match) (string, bool) {
		return lower.String(m.Text), true
	})
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, preserving, preserving)
}

// Options implements api.Operator.
func (op *Lowercase) Options() any { return struct{}{} }

// StripAccents removes combining marks (Unicode category Mn): each code point is decomposed (NFD),
// stripped of its marks and recomposed (NFC). Stand-alone combining marks are deleted.
type StripAccents struct {
	operators.Base
}

// Compile time assert that StripAccents implements api.Operator.
var _ api.Operator = &StripAccents{}

// NewStripAccents returns the StripAccents operator.
func NewStripAccents() *StripAccents {
	return &StripAccents{Base: operators.NewBase(StripAccentsName, api.KindText, api.KindText)}
}

// NewStripAccentsFromOptions implements the registry factory; StripAccents takes no options.
func NewStripAccentsFromOptions(raw json.RawMessage) (api.Operator, error) {
	if err := operators.DecodeOptions(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return NewStripAccents(), nil
}

// Transform implements api.Operator.
func (op *StripAccents) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	g, err := operators.RuneReplacements(in.String(), func(r rune) (string, bool) {
		s := string(r)
		if norm.NFD.String(s) == s && !unicode.Is(unicode.Mn, r) {
			return "", false
		}
		t.Reset()
		stripped, _, err := transform.String(t, s)
		if err != nil {
			return "", false
		}
		return stripped, true
	})
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, preserving, labels.MostCommonEntity)
}

// Options implements api.Operator.
func (op *StripAccents) Options() any { return struct{}{} }

// FullwidthToHalfwidth folds fullwidth forms (e.g. "Ａ", "１", "，") to their narrow equivalents.
type FullwidthToHalfwidth struct {
	operators.Base
}

// Compile time assert that FullwidthToHalfwidth implements api.Operator.
var _ api.Operator = &FullwidthToHalfwidth{}

// NewFullwidthToHalfwidth returns the FullwidthToHalfwidth operator.
func NewFullwidthToHalfwidth() *FullwidthToHalfwidth {
	return &FullwidthToHalfwidth{Base: operators.NewBase(FullwidthToHalfwidthName, api.KindText, api.KindText)}
}

// NewFullwidthToHalfwidthFromOptions implements the registry factory; it takes no options.
func NewFullwidthToHalfwidthFromOptions(raw json.RawMessage) (api.Operator, error) {
	if err := operators.DecodeOptions(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return NewFullwidthToHalfwidth(), nil
}

// Transform implements api.Operator.
func (op *FullwidthToHalfwidth) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	g, err := operators.RuneReplacements(in.String(), func(r rune) (string, bool) {
		if width.LookupRune(r).Kind() != width.EastAsianFullwidth {
			return "", false
		}
		return width.Fold.String(string(r)), true
	})
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, preserving, preserving)
}

// Options implements api.Operator.
func (op *FullwidthToHalfwidth) Options() any { return struct{}{} }
