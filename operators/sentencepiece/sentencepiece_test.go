package sentencepiece

import (
	"os"
	"strings"
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelEnv names the environment variable with the path to a SentencePiece model, e.g. the "tokenizer.model"
// of google/flan-t5-small.
const modelEnv = "TEXTALIGN_SENTENCEPIECE_MODEL"

func loadModel(t *testing.T) *Tokenizer {
	t.Helper()
	path := os.Getenv(modelEnv)
	if path == "" {
		t.Skipf("%s not set", modelEnv)
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("model %q not available: %v", path, err)
	}
	op, err := New(Options{ModelPath: path})
	require.NoError(t, err)
	return op
}

func TestSurface(t *testing.T) {
	assert.Equal(t, "hello", surface("▁hello"))
	assert.Equal(t, "", surface("▁"))
	assert.Equal(t, "ing", surface("ing"))
	assert.Equal(t, "a b", surface("▁a▁b"))
}

func TestNewErrors(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{ModelPath: "/nonexistent/tokenizer.model"})
	assert.Error(t, err)
	_, err = NewFromOptions([]byte(`{"model": "x"}`))
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	op := loadModel(t)
	inputs := []string{
		"hello",
		"hello world",
		"The quick brown fox jumps over the lazy dog.",
		"Multiple  spaces   here",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			out, aligner, err := op.Transform(api.Text(input))
			require.NoError(t, err)
			require.Greater(t, out.Len(), 0)

			var rebuilt strings.Builder
			for _, tok := range out.TokenList() {
				rebuilt.WriteString(surface(tok))
			}
			assert.Equal(t, strings.Join(strings.Fields(input), ""), strings.ReplaceAll(rebuilt.String(), " ", ""))

			textLabels := make([]int, len([]rune(input)))
			for ii := range textLabels {
				textLabels[ii] = 1
			}
			forward, err := aligner.Forward(textLabels)
			require.NoError(t, err)
			assert.Len(t, forward, out.Len())

			back, err := aligner.Backward(forward)
			require.NoError(t, err)
			assert.Len(t, back, len(textLabels))
		})
	}
}
