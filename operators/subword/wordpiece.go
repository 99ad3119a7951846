// Package subword splits tokens into sub-word pieces.
package subword

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/edit"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
	"github.com/gomlx/go-textalign/operators/vocab"
	"github.com/pkg/errors"
)

// WordPieceName is the registry name of WordPiece.
const WordPieceName = "WordPiece"

// Defaults, the ones used by BERT.
const (
	DefaultPrefix   = "##"
	DefaultUnk      = "[UNK]"
	DefaultMaxChars = 100
)

// WordPieceOptions configures WordPiece.
type WordPieceOptions struct {
	// Vocab is an inline vocabulary. Exactly one of Vocab and VocabPath must be given.
	Vocab map[string]int `json:"vocab,omitempty" yaml:"vocab,omitempty"`

	// VocabPath is a vocab.txt or tokenizer.json file. For a tokenizer.json, the model's prefix, unknown token
	// and maximum characters are used for the options left empty.
	VocabPath string `json:"vocab_path,omitempty" yaml:"vocab_path,omitempty"`

	// Prefix marks pieces that continue a word. Defaults to "##".
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Unk replaces words that can't be split into known pieces. Defaults to "[UNK]".
	Unk string `json:"unk,omitempty" yaml:"unk,omitempty"`

	// MaxChars is the length, in code points, above which a word is replaced by Unk. Defaults to 100.
	MaxChars int `json:"max_chars,omitempty" yaml:"max_chars,omitempty"`
}

// WordPiece splits each token into the pieces of a vocabulary with a greedy longest-prefix match, the way
// BERT does.
//
// Going forward, the label of a token is broadcast to its pieces; going back, the pieces of a token get the
// most common entity label among them.
type WordPiece struct {
	operators.Base
	options WordPieceOptions
	vocab   vocab.Vocab
}

// Compile time assert that WordPiece implements api.Operator.
var _ api.Operator = &WordPiece{}

// NewWordPiece returns the operator for the given options. It fails if the vocabulary can't be resolved.
func NewWordPiece(options WordPieceOptions) (*WordPiece, error) {
	v, err := vocab.Resolve(options.Vocab, options.VocabPath)
	if err != nil {
		return nil, errors.WithMessage(err, WordPieceName)
	}
	if strings.EqualFold(filepath.Ext(options.VocabPath), ".json") {
		tj, err := vocab.ReadTokenizerJSON(options.VocabPath)
		if err != nil {
			return nil, err
		}
		if options.Prefix == "" {
			options.Prefix = tj.Model.ContinuingSubwordPrefix
		}
		if options.Unk == "" {
			options.Unk = tj.Model.UnkToken
		}
		if options.MaxChars == 0 {
			options.MaxChars = tj.Model.MaxInputCharsPerWord
		}
	}
	if options.Prefix == "" {
		options.Prefix = DefaultPrefix
	}
	if options.Unk == "" {
		options.Unk = DefaultUnk
	}
	if options.MaxChars <= 0 {
		options.MaxChars = DefaultMaxChars
	}
	return &WordPiece{
		Base:    operators.NewBase(WordPieceName, api.KindTokens, api.KindTokens),
		options: options,
		vocab:   v,
	}, nil
}

// NewWordPieceFromOptions implements the registry factory.
func NewWordPieceFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options WordPieceOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewWordPiece(options)
}

// Split returns the pieces of word. A word longer than MaxChars, or one that can't be entirely covered by
// pieces of the vocabulary, becomes the single Unk piece.
func (op *WordPiece) Split(word string) []string {
	if word == "" {
		return nil
	}
	runes := []rune(word)
	if len(runes) > op.options.MaxChars {
		return []string{op.options.Unk}
	}

	var pieces []string
	start := 0

	for start < len(runes) {
		end := len(runes)
		found := false

		for start < end {
			substr := string(runes[start:end])
			if start > 0 {
				substr = op.options.Prefix + substr
			}

			if _, ok := op.vocab[substr]; ok {
				pieces = append(pieces, substr)
				found = true
				break
			}
			end--
		}

		if !found {
			return []string{op.options.Unk}
		}
		start = end
	}

	return pieces
}

// Transform implements api.Operator.
func (op *WordPiece) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	b := edit.NewReplacementGroupBuilder()
	for ii, token := range in.TokenList() {
		pieces := op.Split(token)
		if slices.Equal(pieces, []string{token}) {
			continue
		}
		if err := b.AddTokens(ii, ii+1, pieces); err != nil {
			return api.Sequence{}, nil, err
		}
	}
	g, err := b.Finalize()
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, labels.MostCommon, labels.MostCommonEntity)
}

// Options implements api.Operator.
func (op *WordPiece) Options() any { return op.options }
