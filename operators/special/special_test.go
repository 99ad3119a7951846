package special

import (
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPad(t *testing.T) {
	op, err := NewPad(PadOptions{MaxLen: 5})
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []string
		labels      []int
		want        []string
		wantForward []int
		wantRealign []int
	}{
		{
			name:        "pad",
			input:       []string{"alvin"},
			labels:      []int{1},
			want:        []string{"alvin", "<pad>", "<pad>", "<pad>", "<pad>"},
			wantForward: []int{1, 0, 0, 0, 0},
			wantRealign: []int{1},
		},
		{
			name:        "exact",
			input:       []string{"a", "b", "c", "d", "e"},
			labels:      []int{1, 2, 3, 4, 5},
			want:        []string{"a", "b", "c", "d", "e"},
			wantForward: []int{1, 2, 3, 4, 5},
			wantRealign: []int{1, 2, 3, 4, 5},
		},
		{
			name:        "truncate",
			input:       []string{"a", "b", "c", "d", "e", "f", "g"},
			labels:      []int{1, 1, 0, 0, 2, 3, 3},
			want:        []string{"a", "b", "c", "d", "e"},
			wantForward: []int{1, 1, 0, 0, 2},
			wantRealign: []int{1, 1, 0, 0, 2, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, aligner, err := op.Transform(api.Tokens(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.TokenList())

			forward, err := aligner.Forward(tt.labels)
			require.NoError(t, err)
			assert.Equal(t, tt.wantForward, forward)

			back, err := aligner.Backward(forward)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRealign, back)
		})
	}
}

func TestPadOptions(t *testing.T) {
	_, err := NewPad(PadOptions{})
	assert.Error(t, err)

	op, err := NewPadFromOptions([]byte(`{"max_len": 2, "pad_token": "[PAD]"}`))
	require.NoError(t, err)
	out, _, err := op.Transform(api.Tokens(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"[PAD]", "[PAD]"}, out.TokenList())
	assert.Equal(t, PadOptions{MaxLen: 2, PadToken: "[PAD]"}, op.Options())
}

func TestAddSosEos(t *testing.T) {
	op := NewAddSosEos(SosEosOptions{})

	out, aligner, err := op.Transform(api.Tokens([]string{"alvin", "is"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"<sos>", "alvin", "is", "<eos>"}, out.TokenList())

	forward, err := aligner.Forward([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 0}, forward)
	back, err := aligner.Backward([]int{3, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, back)

	out, aligner, err = op.Transform(api.Tokens(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"<sos>", "<eos>"}, out.TokenList())
	back, err = aligner.Backward([]int{0, 0})
	require.NoError(t, err)
	assert.Empty(t, back)

	custom, err := NewAddSosEosFromOptions([]byte(`{"start": "[CLS]", "end": "[SEP]"}`))
	require.NoError(t, err)
	out, _, err = custom.Transform(api.Tokens([]string{"x"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"[CLS]", "x", "[SEP]"}, out.TokenList())
}
