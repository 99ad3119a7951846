// Package tokenize implements text -> tokens operators, and Join to go back from tokens to text.
//
// A tokenizer operator wraps a Segmenter: anything that cuts a text into tokens whose concatenation is the
// text minus some dropped parts (usually whitespace). The dropped parts are discovered by diffing, so
// segmenters don't need to report positions.
package tokenize

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
)

// Registry names.
const (
	WhitespaceTokenizerName = "WhitespaceTokenizer"
	CharTokenizerName       = "CharTokenizer"
	WordTokenizerName       = "WordTokenizer"
	DictTokenizerName       = "DictTokenizer"
	JoinName                = "Join"
)

// Segmenter cuts text into tokens, in order. Each token must be found in the text after the previous one.
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc adapts a function to a Segmenter.
type SegmenterFunc func(text string) []string

// Segment implements Segmenter.
func (f SegmenterFunc) Segment(text string) []string { return f(text) }

// Tokenizer is a text -> tokens operator backed by a Segmenter.
type Tokenizer struct {
	operators.Base
	segmenter Segmenter
	options   any
}

// Compile time assert that Tokenizer implements api.Operator.
var _ api.Operator = &Tokenizer{}

// New returns a tokenizer registered as name. options is what Options returns, for serialization.
func New(name string, segmenter Segmenter, options any) *Tokenizer {
	if options == nil {
		options = struct{}{}
	}
	return &Tokenizer{
		Base:      operators.NewBase(name, api.KindText, api.KindTokens),
		segmenter: segmenter,
		options:   options,
	}
}

// Transform implements api.Operator. It fails with api.ErrIncompatibleTokens if the segmenter's tokens can't
// be located in the text.
func (op *Tokenizer) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	tokens := op.segmenter.Segment(in.String())
	return operators.Tokenized(in, tokens, tokens, labels.MostCommon, labels.MostCommon)
}

// Options implements api.Operator.
func (op *Tokenizer) Options() any { return op.options }

// noOptions builds a registry factory for tokenizers that take no options.
func noOptions(build func() *Tokenizer) func(raw json.RawMessage) (api.Operator, error) {
	return func(raw json.RawMessage) (api.Operator, error) {
		if err := operators.DecodeOptions(raw, &struct{}{}); err != nil {
			return nil, err
		}
		return build(), nil
	}
}

// NewWhitespaceTokenizer splits on whitespace.
func NewWhitespaceTokenizer() *Tokenizer {
	return New(WhitespaceTokenizerName, SegmenterFunc(strings.Fields), nil)
}

// NewWhitespaceTokenizerFromOptions implements the registry factory.
var NewWhitespaceTokenizerFromOptions = noOptions(NewWhitespaceTokenizer)

// NewCharTokenizer makes one token of each non-whitespace code point.
func NewCharTokenizer() *Tokenizer {
	return New(CharTokenizerName, SegmenterFunc(charSegment), nil)
}

// NewCharTokenizerFromOptions implements the registry factory.
var NewCharTokenizerFromOptions = noOptions(NewCharTokenizer)

func charSegment(text string) []string {
	var tokens []string
	for _, r := range text {
		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}

// NewWordTokenizer splits on whitespace, and isolates every punctuation and CJK character: runs of other
// characters (letters, digits, ...) are kept together.
func NewWordTokenizer() *Tokenizer {
	return New(WordTokenizerName, SegmenterFunc(wordSegment), nil)
}

// NewWordTokenizerFromOptions implements the registry factory.
var NewWordTokenizerFromOptions = noOptions(NewWordTokenizer)

func wordSegment(text string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsSpace(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		} else if operators.IsPunctuation(r) || operators.IsCJK(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Join concatenates tokens back into a text.
type Join struct {
	operators.Base
}

// Compile time assert that Join implements api.Operator.
var _ api.Operator = &Join{}

// NewJoin returns the Join operator.
func NewJoin() *Join {
	return &Join{Base: operators.NewBase(JoinName, api.KindTokens, api.KindText)}
}

// NewJoinFromOptions implements the registry factory.
func NewJoinFromOptions(raw json.RawMessage) (api.Operator, error) {
	if err := operators.DecodeOptions(raw, &struct{}{}); err != nil {
		return nil, err
	}
	return NewJoin(), nil
}

// Transform implements api.Operator.
func (op *Join) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.Joined(in, labels.MostCommon)
}

// Options implements api.Operator.
func (op *Join) Options() any { return struct{}{} }
