package subword

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVocab = map[string]int{
	"[UNK]": 0, "un": 1, "##aff": 2, "##able": 3, "alvin": 4, "play": 5, "##ing": 6,
}

func TestSplit(t *testing.T) {
	op, err := NewWordPiece(WordPieceOptions{Vocab: testVocab})
	require.NoError(t, err)

	tests := []struct {
		word string
		want []string
	}{
		{"alvin", []string{"alvin"}},
		{"unaffable", []string{"un", "##aff", "##able"}},
		{"playing", []string{"play", "##ing"}},
		{"plays", []string{"[UNK]"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, op.Split(tt.word))
		})
	}

	short, err := NewWordPiece(WordPieceOptions{Vocab: testVocab, MaxChars: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"[UNK]"}, short.Split("alvin"))
}

func TestWordPieceLabels(t *testing.T) {
	op, err := NewWordPiece(WordPieceOptions{Vocab: testVocab})
	require.NoError(t, err)

	out, aligner, err := op.Transform(api.Tokens([]string{"alvin", "unaffable", "playing", "xyz"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"alvin", "un", "##aff", "##able", "play", "##ing", "[UNK]"}, out.TokenList())

	forward, err := aligner.Forward([]int{1, 0, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0, 0, 2, 2, 3}, forward)

	back, err := aligner.Backward(forward)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2, 3}, back)

	// A piece with an entity label wins over the others.
	back, err = aligner.Backward([]int{1, 0, 5, 0, 2, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 2, 3}, back)

	_, _, err = op.Transform(api.Text("alvin"))
	assert.True(t, errors.Is(err, api.ErrTypeMismatch), "%v", err)
}

func TestWordPieceFromTokenizerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenizer.json")
	content := `{"model": {"type": "WordPiece", "unk_token": "<unk>", "continuing_subword_prefix": "@@",
		"vocab": {"<unk>": 0, "ab": 1, "@@c": 2}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	op, err := NewWordPieceFromOptions([]byte(`{"vocab_path": "` + path + `"}`))
	require.NoError(t, err)
	out, _, err := op.Transform(api.Tokens([]string{"abc", "zz"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "@@c", "<unk>"}, out.TokenList())
	assert.Equal(t, WordPieceOptions{VocabPath: path, Prefix: "@@", Unk: "<unk>", MaxChars: DefaultMaxChars}, op.Options())
}

func TestWordPieceOptionsErrors(t *testing.T) {
	_, err := NewWordPiece(WordPieceOptions{})
	assert.Error(t, err)
	_, err = NewWordPieceFromOptions([]byte(`{"vocab": {"a": 0}, "suffix": "##"}`))
	assert.Error(t, err)
}
