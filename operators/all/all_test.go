package all

import (
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/datum"
	"github.com/gomlx/go-textalign/pipeline"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.Names(), len(Factories()))
	assert.Contains(t, r.Names(), "Token2Index")
	assert.Contains(t, r.Names(), "SentencePiece")

	err := Register(r)
	assert.True(t, errors.Is(err, api.ErrDuplicateOperator), "%v", err)
}

// Scenario: "12 24 3666" through IntToken, and back.
func TestIntTokenScenario(t *testing.T) {
	p, err := NewRegistry().FromJSON([]byte(`[{"name": "IntToken"}]`))
	require.NoError(t, err)
	out, labels, r, err := p.Transform(api.Text("12 24 3666"), []int{1, 1, 0, 2, 2, 0, 3, 3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, "_int_ _int_ _int_", out.String())
	assert.Equal(t, []int{1, 1, 1, 1, 1, 0, 2, 2, 2, 2, 2, 0, 3, 3, 3, 3, 3}, labels)
	realigned, err := r.Realign(labels)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 2, 2, 0, 3, 3, 3, 3}, realigned)
}

// Scenario: padding ["alvin"] to 5, and back.
func TestPadScenario(t *testing.T) {
	p, err := NewRegistry().FromJSON([]byte(`[{"name": "Pad", "options": {"max_len": 5}}]`))
	require.NoError(t, err)
	out, labels, r, err := p.Transform(api.Tokens([]string{"alvin"}), []int{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"alvin", "<pad>", "<pad>", "<pad>", "<pad>"}, out.TokenList())
	assert.Equal(t, []int{1, 0, 0, 0, 0}, labels)
	realigned, err := r.Realign(labels)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, realigned)
}

const fullPipelineYAML = `
- name: FullwidthToHalfwidth
- name: Lowercase
- name: StripAccents
- name: AddWhitespaceAroundCharacter
  options:
    classes: [cjk]
- name: MergeWhitespace
  options:
    strip: true
- name: IntToken
- name: WhitespaceTokenizer
- name: WordPiece
  options:
    vocab: {"[UNK]": 0, "al": 1, "##vin": 2, "喝": 3, "_int_": 4, "元": 5}
- name: AddSosEos
- name: Pad
  options:
    max_len: 8
- name: Token2Index
  options:
    vocab: {"[UNK]": 0, "al": 1, "##vin": 2, "喝": 3, "_int_": 4, "元": 5, "<sos>": 6, "<eos>": 7, "<pad>": 8}
`

func TestFullPipeline(t *testing.T) {
	r := NewRegistry()
	p, err := r.FromYAML([]byte(fullPipelineYAML))
	require.NoError(t, err)
	assert.Equal(t, 11, p.Len())
	assert.Equal(t, api.KindIDs, p.OutputKind())

	d := datum.Datum{
		Utterance: "Alvin喝２００元",
		Entities:  []datum.Entity{{Label: 1, Start: 0, End: 5}, {Label: 2, Start: 6, End: 9}},
	}
	textLabels, err := d.Labels()
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 1, 1, 1, 0, 2, 2, 2, 0}, textLabels)

	out, labels, realigner, err := p.Transform(api.Text(d.Utterance), textLabels)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 1, 2, 3, 4, 5, 7, 8}, out.IDList())
	assert.Equal(t, []int{0, 1, 1, 0, 2, 0, 0, 0}, labels)

	// Intermediate tokens, before WordPiece.
	tokens, _, _, err := prefixPipeline(t, r, p, 7).Transform(api.Text(d.Utterance), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alvin", "喝", "_int_", "元"}, tokens.TokenList())

	realigned, err := realigner.Realign(labels)
	require.NoError(t, err)
	assert.Equal(t, textLabels, realigned)

	predicted, err := datum.FromLabels(d.Utterance, realigned)
	require.NoError(t, err)
	assert.Equal(t, []datum.Entity{
		{Label: 1, Start: 0, End: 5, Value: "Alvin"},
		{Label: 2, Start: 6, End: 9, Value: "２００"},
	}, predicted.Entities)

	// The descriptor survives a JSON round trip.
	desc, err := p.Descriptor()
	require.NoError(t, err)
	data, err := desc.JSON()
	require.NoError(t, err)
	rebuilt, err := r.FromJSON(data)
	require.NoError(t, err)
	desc2, err := rebuilt.Descriptor()
	require.NoError(t, err)
	assert.True(t, desc.Equal(desc2))
}

// prefixPipeline returns a pipeline of the first n operators of p.
func prefixPipeline(t *testing.T, r *pipeline.Registry, p *pipeline.Pipeline, n int) *pipeline.Pipeline {
	t.Helper()
	desc, err := p.Descriptor()
	require.NoError(t, err)
	prefix, err := r.Build(desc[:n])
	require.NoError(t, err)
	return prefix
}
