package pattern

import (
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntTokenRoundTrip(t *testing.T) {
	out, aligner, err := NewIntToken().Transform(api.Text("12 24 3666"))
	require.NoError(t, err)
	assert.Equal(t, "_int_ _int_ _int_", out.String())

	forward, err := aligner.Forward([]int{1, 1, 0, 2, 2, 0, 3, 3, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 0, 2, 2, 2, 2, 2, 0, 3, 3, 3, 3, 3}, forward)

	back, err := aligner.Backward(forward)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0, 2, 2, 0, 3, 3, 3, 3}, back)
}

func TestSubstitutions(t *testing.T) {
	tests := []struct {
		name  string
		op    *Substitute
		input string
		want  string
	}{
		{"int in chinese", NewIntToken(), "我想要喝200元的珍奶10杯", "我想要喝_int_元的珍奶_int_杯"},
		{"float", NewFloatToken(), "pi is 3.14, not 3", "pi is _float_, not 3"},
		{"number", NewNumberToken(), "3.14 or 3", "_num_ or _num_"},
		{"no match", NewIntToken(), "none", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, aligner, err := tt.op.Transform(api.Text(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, out.Len(), aligner.OutputLen())
		})
	}
}

func TestFactory(t *testing.T) {
	op, err := Factory(IntTokenName, IntTokenDefaults)([]byte(`{"token": "<NUM>"}`))
	require.NoError(t, err)
	assert.Equal(t, Options{Pattern: `\d+`, Token: "<NUM>"}, op.Options())

	out, _, err := op.Transform(api.Text("a1"))
	require.NoError(t, err)
	assert.Equal(t, "a<NUM>", out.String())

	_, err = Factory(SubstituteName, Options{})([]byte(`{"pattern": "("}`))
	assert.Error(t, err)
	_, err = Factory(SubstituteName, Options{})([]byte(`{"pattern": "x"}`))
	assert.Error(t, err)
}
