package vocab

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/operators"
	"github.com/pkg/errors"
)

// Token2IndexName is the registry name of Token2Index.
const Token2IndexName = "Token2Index"

// DefaultUnk is the default unknown token.
const DefaultUnk = "[UNK]"

// Token2IndexOptions configures Token2Index.
type Token2IndexOptions struct {
	// Vocab is an inline vocabulary. Exactly one of Vocab and VocabPath must be given.
	Vocab map[string]int `json:"vocab,omitempty" yaml:"vocab,omitempty"`

	// VocabPath is a vocab.txt or tokenizer.json file, see Load.
	VocabPath string `json:"vocab_path,omitempty" yaml:"vocab_path,omitempty"`

	// Unk is the token whose id is used for unknown tokens. Defaults to "[UNK]".
	Unk string `json:"unk,omitempty" yaml:"unk,omitempty"`

	// HashBuckets, if > 0, maps each unknown token to one of HashBuckets ids after the vocabulary, chosen by a
	// hash of the token, instead of the Unk id.
	HashBuckets int `json:"hash_buckets,omitempty" yaml:"hash_buckets,omitempty"`
}

// Token2Index maps each token to its id in a vocabulary.
type Token2Index struct {
	operators.Base
	options Token2IndexOptions
	vocab   Vocab

	unkID      int // -1 if the vocabulary has no unknown token.
	bucketBase int
}

// Compile time assert that Token2Index implements api.Operator.
var _ api.Operator = &Token2Index{}

// NewToken2Index returns the operator for the given options. It fails if the vocabulary can't be resolved.
func NewToken2Index(options Token2IndexOptions) (*Token2Index, error) {
	v, err := Resolve(options.Vocab, options.VocabPath)
	if err != nil {
		return nil, errors.WithMessage(err, Token2IndexName)
	}
	if options.HashBuckets < 0 {
		return nil, errors.Errorf("%s: negative number of hash buckets %d", Token2IndexName, options.HashBuckets)
	}
	if options.Unk == "" {
		options.Unk = DefaultUnk
	}
	op := &Token2Index{
		Base:       operators.NewBase(Token2IndexName, api.KindTokens, api.KindIDs),
		options:    options,
		vocab:      v,
		unkID:      -1,
		bucketBase: v.MaxID() + 1,
	}
	if id, found := v[options.Unk]; found {
		op.unkID = id
	}
	return op, nil
}

// NewToken2IndexFromOptions implements the registry factory.
func NewToken2IndexFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options Token2IndexOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewToken2Index(options)
}

// ID returns the id of token. ok is false if the token is unknown and there is neither an Unk id nor hash
// buckets to map it to.
func (op *Token2Index) ID(token string) (id int, ok bool) {
	if id, found := op.vocab[token]; found {
		return id, true
	}
	if op.options.HashBuckets > 0 {
		return op.bucketBase + int(xxhash.Sum64String(token)%uint64(op.options.HashBuckets)), true
	}
	if op.unkID >= 0 {
		return op.unkID, true
	}
	return 0, false
}

// VocabSize returns the number of distinct ids the operator can output.
func (op *Token2Index) VocabSize() int {
	return op.bucketBase + op.options.HashBuckets
}

// Transform implements api.Operator.
func (op *Token2Index) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	tokens := in.TokenList()
	ids := make([]int, len(tokens))
	for ii, token := range tokens {
		id, ok := op.ID(token)
		if !ok {
			return api.Sequence{}, nil, errors.Errorf("%s: token #%d %q not in vocabulary, and no %q token or hash buckets",
				op.Name(), ii, token, op.options.Unk)
		}
		ids[ii] = id
	}
	return api.IDs(ids), operators.NewElementwiseAligner(len(ids)), nil
}

// Options implements api.Operator.
func (op *Token2Index) Options() any { return op.options }
