// Package pattern implements text -> text operators that substitute every match of a regular expression
// with a placeholder token, e.g. numbers with "_int_".
package pattern

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
	SubstituteName  = "Substitute"
	IntTokenName    = "IntToken"
	FloatTokenName  = "FloatToken"
	NumberTokenName = "NumberToken"
)

// Options configures a substitution.
type Options struct {
	// Pattern is a regular expression in Go (RE2) syntax.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Token replaces each match.
	Token string `json:"token" yaml:"token"`
}

// Defaults of the named substitutions.
var (
	IntTokenDefaults    = Options{Pattern: `\d+`, Token: "_int_"}
	FloatTokenDefaults  = Options{Pattern: `\d+\.\d+`, Token: "_float_"}
	NumberTokenDefaults = Options{Pattern: `\d+(?:\.\d+)?`, Token: "_num_"}
)

// Substitute replaces each match of a regular expression with a token.
type Substitute struct {
	operators.Base
	options Options
	re      *regexp.Regexp
}

// Compile time assert that Substitute implements api.Operator.
var _ api.Operator = &Substitute{}

// New returns a substitution registered under name.
func New(name string, options Options) (*Substitute, error) {
	if options.Pattern == "" {
		return nil, errors.Errorf("%s: empty pattern", name)
	}
	if options.Token == "" {
		return nil, errors.Errorf("%s: empty token", name)
	}
	re, err := regexp.Compile(options.Pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid pattern %q", name, options.Pattern)
	}
	return &Substitute{
		Base:    operators.NewBase(name, api.KindText, api.KindText),
		options: options,
		re:      re,
	}, nil
}

// NewIntToken replaces integers with "_int_".
func NewIntToken() *Substitute { return mustNew(IntTokenName, IntTokenDefaults) }

// NewFloatToken replaces decimal numbers with "_float_".
func NewFloatToken() *Substitute { return mustNew(FloatTokenName, FloatTokenDefaults) }

// NewNumberToken replaces integers and decimal numbers with "_num_".
func NewNumberToken() *Substitute { return mustNew(NumberTokenName, NumberTokenDefaults) }

func mustNew(name string, options Options) *Substitute {
	op, err := New(name, options)
	if err != nil {
		panic(err)
	}
	return op
}

// Factory returns the registry factory of a substitution named name. Options missing from the
// configuration keep the given defaults.
func Factory(name string, defaults Options) func(raw json.RawMessage) (api.Operator, error) {
	return func(raw json.RawMessage) (api.Operator, error) {
		options := defaults
		if err := operators.DecodeOptions(raw, &options); err != nil {
			return nil, err
		}
		return New(name, options)
	}
}

// Transform implements api.Operator.
func (op *Substitute) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	g, err := operators.MatchReplacements(in.String(), op.re, func(operators.Match) (string, bool) {
		return op.options.Token, true
	})
	if err != nil {
		return api.Sequence{}, nil, errors.WithMessagef(err, "%s", op.Name())
	}
	return operators.ApplyReplacements(in, g, labels.MostCommon, labels.MostCommon)
}

// Options implements api.Operator.
func (op *Substitute) Options() any { return op.options }
