// Package all registers every operator of this module in a pipeline.Registry.
//
// There is no global registry: create one with NewRegistry, or add the operators to your own with Register,
// next to your custom operators.
package all

import (
	"github.com/gomlx/go-textalign/operators/normalize"
	"github.com/gomlx/go-textalign/operators/pattern"
	"github.com/gomlx/go-textalign/operators/sentencepiece"
	"github.com/gomlx/go-textalign/operators/special"
	"github.com/gomlx/go-textalign/operators/subword"
	"github.com/gomlx/go-textalign/operators/tokenize"
	"github.com/gomlx/go-textalign/operators/vocab"
	"github.com/gomlx/go-textalign/pipeline"
)

// Factories returns the factory of every operator, by registry name.
func Factories() map[string]pipeline.Factory {
	return map[string]pipeline.Factory{
		// text -> text
		normalize.LowercaseName:                    normalize.NewLowercaseFromOptions,
		normalize.StripAccentsName:                 normalize.NewStripAccentsFromOptions,
		normalize.FullwidthToHalfwidthName:         normalize.NewFullwidthToHalfwidthFromOptions,
		normalize.AddWhitespaceAroundCharacterName: normalize.NewAddWhitespaceAroundCharacterFromOptions,
		normalize.MergeWhitespaceName:              normalize.NewMergeWhitespaceFromOptions,
		pattern.SubstituteName:                     pattern.Factory(pattern.SubstituteName, pattern.Options{}),
		pattern.IntTokenName:                       pattern.Factory(pattern.IntTokenName, pattern.IntTokenDefaults),
		pattern.FloatTokenName:                     pattern.Factory(pattern.FloatTokenName, pattern.FloatTokenDefaults),
		pattern.NumberTokenName:                    pattern.Factory(pattern.NumberTokenName, pattern.NumberTokenDefaults),

		// text -> tokens
		tokenize.WhitespaceTokenizerName: tokenize.NewWhitespaceTokenizerFromOptions,
		tokenize.CharTokenizerName:       tokenize.NewCharTokenizerFromOptions,
		tokenize.WordTokenizerName:       tokenize.NewWordTokenizerFromOptions,
		tokenize.DictTokenizerName:       tokenize.NewDictTokenizerFromOptions,
		sentencepiece.Name:               sentencepiece.NewFromOptions,

		// tokens -> text
		tokenize.JoinName: tokenize.NewJoinFromOptions,

		// tokens -> tokens
		subword.WordPieceName: subword.NewWordPieceFromOptions,
		special.PadName:       special.NewPadFromOptions,
		special.AddSosEosName: special.NewAddSosEosFromOptions,

		// tokens -> ids
		vocab.Token2IndexName: vocab.NewToken2IndexFromOptions,
	}
}

// Register adds every operator to r. It fails with api.ErrDuplicateOperator if one of the names is taken.
func Register(r *pipeline.Registry) error {
	for name, factory := range Factories() {
		if err := r.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with every operator.
func NewRegistry() *pipeline.Registry {
	r := pipeline.NewRegistry()
	if err := Register(r); err != nil {
		// Names are unique constants: this can't happen with an empty registry.
		panic(err)
	}
	return r
}
