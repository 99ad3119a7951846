package normalize

import (
	"encoding/json"
	"regexp"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
	"github.com/pkg/errors"
)

// Registry names.
const (
	AddWhitespaceAroundCharacterName = "AddWhitespaceAroundCharacter"
	MergeWhitespaceName              = "MergeWhitespace"
)

// Character classes for AddWhitespaceAroundCharacter.
const (
	ClassCJK         = "cjk"
	ClassPunctuation = "punctuation"
)

// AddWhitespaceOptions configures AddWhitespaceAroundCharacter.
type AddWhitespaceOptions struct {
	// Classes of characters to surround with spaces: ClassCJK and/or ClassPunctuation.
	Classes []string `json:"classes" yaml:"classes"`
}

// AddWhitespaceAroundCharacter replaces each character c of the configured classes with " c ", so that a
// later whitespace tokenizer isolates it. Use MergeWhitespace afterwards to collapse the extra spaces.
type AddWhitespaceAroundCharacter struct {
	operators.Base
	options AddWhitespaceOptions
	match   func(r rune) bool
}

// Compile time assert that AddWhitespaceAroundCharacter implements api.Operator.
var _ api.Operator = &AddWhitespaceAroundCharacter{}

// NewAddWhitespaceAroundCharacter returns the operator for the given options.
// It fails if a class is unknown or none is given.
func NewAddWhitespaceAroundCharacter(options AddWhitespaceOptions) (*AddWhitespaceAroundCharacter, error) {
	if len(options.Classes) == 0 {
		return nil, errors.Errorf("%s: no character class configured", AddWhitespaceAroundCharacterName)
	}
	var matchers []func(rune) bool
	for _, class := range options.Classes {
		switch class {
		case ClassCJK:
			matchers = append(matchers, operators.IsCJK)
		case ClassPunctuation:
			matchers = append(matchers, operators.IsPunctuation)
		default:
			return nil, errors.Errorf("%s: unknown character class %q, valid values are %q and %q",
				AddWhitespaceAroundCharacterName, class, ClassCJK, ClassPunctuation)
		}
	}
	return &AddWhitespaceAroundCharacter{
		Base:    operators.NewBase(AddWhitespaceAroundCharacterName, api.KindText, api.KindText),
		options: options,
		match: func(r rune) bool {
			for _, m := range matchers {
				if m(r) {
					return true
				}
			}
			return false
		},
	}, nil
}

// NewAddWhitespaceAroundCJK is a shortcut for the CJK class.
func NewAddWhitespaceAroundCJK() *AddWhitespaceAroundCharacter {
	op, _ := NewAddWhitespaceAroundCharacter(AddWhitespaceOptions{Classes: []string{ClassCJK}})
	return op
}

// NewAddWhitespaceAroundPunctuation is a shortcut for the punctuation class.
func NewAddWhitespaceAroundPunctuation() *AddWhitespaceAroundCharacter {
	op, _ := NewAddWhitespaceAroundCharacter(AddWhitespaceOptions{Classes: []string{ClassPunctuation}})
	return op
}

// NewAddWhitespaceAroundCharacterFromOptions implements the registry factory.
func NewAddWhitespaceAroundCharacterFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options AddWhitespaceOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewAddWhitespaceAroundCharacter(options)
}

// Transform implements api.Operator.
func (op *AddWhitespaceAroundCharacter) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	g, err := operators.RuneReplacements(in.String(), func(r rune) (string, bool) {
		if !op.match(r) {
			return "", false
		}
		return " " + string(r) + " ", true
	})
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, labels.MostCommon, labels.MostCommonEntity)
}

// Options implements api.Operator.
func (op *AddWhitespaceAroundCharacter) Options() any { return op.options }

// MergeWhitespaceOptions configures MergeWhitespace.
type MergeWhitespaceOptions struct {
	// Strip also deletes leading and trailing whitespace.
	Strip bool `json:"strip" yaml:"strip"`
}

// MergeWhitespace collapses every run of whitespace into a single space.
type MergeWhitespace struct {
	operators.Base
	options MergeWhitespaceOptions
}

// Compile time assert that MergeWhitespace implements api.Operator.
var _ api.Operator = &MergeWhitespace{}

var whitespaceRunRE = regexp.MustCompile(`\s+`)

// NewMergeWhitespace returns the MergeWhitespace operator.
func NewMergeWhitespace(options MergeWhitespaceOptions) *MergeWhitespace {
	return &MergeWhitespace{
		Base:    operators.NewBase(MergeWhitespaceName, api.KindText, api.KindText),
		options: options,
	}
}

// NewMergeWhitespaceFromOptions implements the registry factory.
func NewMergeWhitespaceFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options MergeWhitespaceOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewMergeWhitespace(options), nil
}

// Transform implements api.Operator.
func (op *MergeWhitespace) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	total := in.Len()
	g, err := operators.MatchReplacements(in.String(), whitespaceRunRE, func(m operators.Match) (string, bool) {
		if op.options.Strip && (m.Start == 0 || m.End == total) {
			return "", true
		}
		return " ", true
	})
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, labels.MostCommon, labels.MostCommon)
}

// Options implements api.Operator.
func (op *MergeWhitespace) Options() any { return op.options }
