// Package sentencepiece implements a text -> tokens operator based on a SentencePiece model.
package sentencepiece

import (
	"encoding/json"
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
	"github.com/pkg/errors"
)

// Name is the registry name of the SentencePiece operator.
const Name = "SentencePiece"

// metaspace is the U+2581 (lower one eighth block) character SentencePiece uses to mark a preceding space.
const metaspace = "▁"

// Options configures the SentencePiece operator.
type Options struct {
	// ModelPath is a SentencePiece model file ("tokenizer.model"), a serialized ModelProto.
	ModelPath string `json:"model_path" yaml:"model_path"`
}

// Tokenizer cuts text into the pieces of a SentencePiece model.
//
// The output tokens are the model pieces, with their "▁" markers. The model's own normalization must not
// change the text other than for spaces: normalize it beforehand (e.g. with FullwidthToHalfwidth) otherwise
// Transform fails with api.ErrIncompatibleTokens.
type Tokenizer struct {
	operators.Base
	options   Options
	processor *esentencepiece.Processor
	info      *esentencepiece.ModelInfo
}

// Compile time assert that Tokenizer implements api.Operator.
var _ api.Operator = &Tokenizer{}

// New loads the model and returns the operator.
func New(options Options) (*Tokenizer, error) {
	if options.ModelPath == "" {
		return nil, errors.Errorf("%s: no model_path given", Name)
	}
	proc, err := esentencepiece.NewProcessorFromPath(options.ModelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", options.ModelPath)
	}
	return &Tokenizer{
		Base:      operators.NewBase(Name, api.KindText, api.KindTokens),
		options:   options,
		processor: proc,
		info:      proc.ModelInfo(),
	}, nil
}

// NewFromOptions implements the registry factory.
func NewFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options Options
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return New(options)
}

// Info returns the model information: vocabulary size and special token ids.
func (op *Tokenizer) Info() *esentencepiece.ModelInfo { return op.info }

// Transform implements api.Operator.
func (op *Tokenizer) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	pieces := op.processor.Encode(in.String())
	tokens := make([]string, len(pieces))
	surfaces := make([]string, len(pieces))
	for ii, piece := range pieces {
		tokens[ii] = piece.Text
		surfaces[ii] = surface(piece.Text)
	}
	out, aligner, err := operators.Tokenized(in, tokens, surfaces, labels.MostCommon, labels.MostCommon)
	if err != nil {
		return api.Sequence{}, nil, errors.WithMessagef(err, "%s", op.Name())
	}
	return out, aligner, nil
}

// Options implements api.Operator.
func (op *Tokenizer) Options() any { return op.options }

// surface returns how a piece appears in the original text: the leading metaspace stands for the whitespace
// the tokenizer consumed, and other metaspaces are spaces.
func surface(piece string) string {
	piece = strings.TrimPrefix(piece, metaspace)
	return strings.ReplaceAll(piece, metaspace, " ")
}
