// Package vocab loads token vocabularies and implements Token2Index, the tokens -> ids operator.
//
// Two file formats are supported: BERT's vocab.txt (one token per line, the id is the line number) and
// HuggingFace's tokenizer.json (the model vocabulary plus the added tokens).
package vocab

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Vocab maps tokens to ids.
type Vocab map[string]int

// MaxID returns the largest id, or -1 for an empty vocabulary.
func (v Vocab) MaxID() int {
	maxID := -1
	for _, id := range v {
		maxID = max(maxID, id)
	}
	return maxID
}

// TokenizerJSON is the part of HuggingFace's tokenizer.json file needed to build a vocabulary and configure
// WordPiece.
type TokenizerJSON struct {
	Version     string       `json:"version"`
	AddedTokens []AddedToken `json:"added_tokens"`
	Model       Model        `json:"model"`
}

// AddedToken is a special token added to the vocabulary.
type AddedToken struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Special bool   `json:"special"`
}

// Model is the tokenizer model configuration (WordPiece, BPE, or Unigram).
type Model struct {
	Type                    string         `json:"type"`
	Vocab                   map[string]int `json:"vocab"`
	UnkToken                string         `json:"unk_token"`
	ContinuingSubwordPrefix string         `json:"continuing_subword_prefix"`
	MaxInputCharsPerWord    int            `json:"max_input_chars_per_word"`
}

// ReadTokenizerJSON reads a tokenizer.json file.
func ReadTokenizerJSON(path string) (*TokenizerJSON, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tokenizer.json file %q", path)
	}
	return ParseTokenizerJSON(content)
}

// ParseTokenizerJSON parses the content of a tokenizer.json file.
func ParseTokenizerJSON(content []byte) (*TokenizerJSON, error) {
	var tj TokenizerJSON
	if err := json.Unmarshal(content, &tj); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tokenizer.json")
	}
	return &tj, nil
}

// Vocab returns the model vocabulary merged with the added tokens.
func (tj *TokenizerJSON) Vocab() Vocab {
	v := make(Vocab, len(tj.Model.Vocab)+len(tj.AddedTokens))
	for token, id := range tj.Model.Vocab {
		v[token] = id
	}
	for _, at := range tj.AddedTokens {
		v[at.Content] = at.ID
	}
	return v
}

// LoadTokenizerJSON returns the vocabulary of a tokenizer.json file.
func LoadTokenizerJSON(path string) (Vocab, error) {
	tj, err := ReadTokenizerJSON(path)
	if err != nil {
		return nil, err
	}
	return tj.Vocab(), nil
}

// ParseText reads a vocab.txt formatted vocabulary: one token per line, ids are line numbers starting at 0.
// Trailing "\r" are removed; a duplicate token keeps its first id.
func ParseText(r io.Reader) (Vocab, error) {
	v := make(Vocab)
	scanner := bufio.NewScanner(r)
	id := 0
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r")
		if _, found := v[token]; !found {
			v[token] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read vocabulary")
	}
	return v, nil
}

// LoadText reads a vocab.txt file.
func LoadText(path string) (Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open vocabulary %q", path)
	}
	defer func() { _ = f.Close() }()
	v, err := ParseText(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "vocabulary %q", path)
	}
	return v, nil
}

// Load reads a vocabulary file, as a tokenizer.json if it has the ".json" extension, as a vocab.txt otherwise.
func Load(path string) (Vocab, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadTokenizerJSON(path)
	}
	return LoadText(path)
}

// Resolve returns inline if it is not empty, and otherwise the vocabulary loaded from path.
// It fails if both or neither are given.
func Resolve(inline map[string]int, path string) (Vocab, error) {
	switch {
	case len(inline) > 0 && path != "":
		return nil, errors.New("both an inline vocabulary and a vocabulary path were given")
	case len(inline) > 0:
		return Vocab(inline), nil
	case path != "":
		return Load(path)
	default:
		return nil, errors.New("no vocabulary given")
	}
}
