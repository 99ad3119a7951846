package edit

import (
	"testing"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpan(t *testing.T) {
	s, err := NewSpan(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	for _, bad := range [][2]int{{5, 2}, {-1, 3}, {0, -1}} {
		_, err := NewSpan(bad[0], bad[1])
		assert.Truef(t, errors.Is(err, api.ErrInvalidRange), "NewSpan(%d, %d): %v", bad[0], bad[1], err)
	}
}

func TestSpanGroupBuilder(t *testing.T) {
	t.Run("sorts and covers", func(t *testing.T) {
		b := NewSpanGroupBuilder()
		require.NoError(t, b.Add(3, 7))
		require.NoError(t, b.Add(0, 3))
		require.NoError(t, b.Add(7, 8))
		sg, err := b.Finalize()
		require.NoError(t, err)
		assert.Equal(t, []Span{{0, 3}, {3, 7}, {7, 8}}, sg.Spans())
		assert.Equal(t, 8, sg.Total())

		sum := 0
		for ii := range sg.Len() {
			sum += sg.At(ii).Len()
		}
		assert.Equal(t, sg.Total(), sum)
	})

	t.Run("not starting at zero", func(t *testing.T) {
		b := NewSpanGroupBuilder()
		require.NoError(t, b.Add(1, 3))
		_, err := b.Finalize()
		assert.True(t, errors.Is(err, api.ErrNotContiguous), "%v", err)
	})

	t.Run("gap", func(t *testing.T) {
		b := NewSpanGroupBuilder()
		require.NoError(t, b.Add(0, 3))
		require.NoError(t, b.Add(4, 6))
		_, err := b.Finalize()
		assert.True(t, errors.Is(err, api.ErrNotContiguous), "%v", err)
	})

	t.Run("overlap", func(t *testing.T) {
		b := NewSpanGroupBuilder()
		require.NoError(t, b.Add(0, 3))
		require.NoError(t, b.Add(2, 6))
		_, err := b.Finalize()
		assert.True(t, errors.Is(err, api.ErrOverlapping), "%v", err)
	})

	t.Run("invalid range", func(t *testing.T) {
		err := NewSpanGroupBuilder().Add(3, 1)
		assert.True(t, errors.Is(err, api.ErrInvalidRange), "%v", err)
	})

	t.Run("empty", func(t *testing.T) {
		sg, err := NewSpanGroupBuilder().Finalize()
		require.NoError(t, err)
		assert.Equal(t, 0, sg.Len())
		assert.Equal(t, 0, sg.Total())
	})
}

func TestSpanGroupFromLengths(t *testing.T) {
	sg, err := SpanGroupFromLengths([]int{2, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, []Span{{0, 2}, {2, 2}, {2, 5}}, sg.Spans())
}

func TestReplacementEqualIgnoresAnnotation(t *testing.T) {
	a := Replacement{Start: 1, End: 2, Value: api.Text("x"), Annotation: "first"}
	b := Replacement{Start: 1, End: 2, Value: api.Text("x"), Annotation: "second"}
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.key(), b.key())
}

func TestReplacementGroupBuilder(t *testing.T) {
	t.Run("deduplicates and sorts", func(t *testing.T) {
		b := NewReplacementGroupBuilder()
		require.NoError(t, b.AddText(5, 6, "b"))
		require.NoError(t, b.AddText(1, 2, "a"))
		require.NoError(t, b.AddText(5, 6, "b"))
		assert.Equal(t, 2, b.Len())
		g, err := b.Finalize()
		require.NoError(t, err)
		require.Equal(t, 2, g.Len())
		assert.Equal(t, 1, g.At(0).Start)
		assert.Equal(t, 5, g.At(1).Start)
	})

	t.Run("mixed kinds", func(t *testing.T) {
		b := NewReplacementGroupBuilder()
		require.NoError(t, b.AddText(0, 1, "a"))
		err := b.AddTokens(2, 3, []string{"b"})
		assert.True(t, errors.Is(err, api.ErrTypeMismatch), "%v", err)
	})

	t.Run("adjacent insertions are legal", func(t *testing.T) {
		g, err := FromTuples([]any{0, 2, "x"}, []any{2, 2, "y"}, []any{2, 4, ""})
		require.NoError(t, err)
		assert.Equal(t, 3, g.Len())
	})

	t.Run("same range with different annotations overlaps", func(t *testing.T) {
		_, err := FromTuples([]any{1, 3, "x", "a"}, []any{1, 3, "x", "b"})
		assert.True(t, errors.Is(err, api.ErrOverlapping), "%v", err)
	})

	t.Run("empty group is the identity", func(t *testing.T) {
		g, err := NewReplacementGroupBuilder().Finalize()
		require.NoError(t, err)
		assert.True(t, g.IsIdentity())
		out, err := Apply(api.Text("abc"), g)
		require.NoError(t, err)
		assert.Equal(t, "abc", out.String())
	})
}

func TestFromTuplesErrors(t *testing.T) {
	tests := []struct {
		name   string
		tuples [][]any
		want   error
	}{
		{"overlapping", [][]any{{1, 10, "b"}, {2, 15, "a"}}, api.ErrOverlapping},
		{"nested", [][]any{{1, 10, "b"}, {2, 8, "a"}}, api.ErrOverlapping},
		{"too short", [][]any{{1, 10}}, api.ErrArity},
		{"too long", [][]any{{1, 10, "a", "x", "y"}}, api.ErrArity},
		{"bad value", [][]any{{1, 10, 3.14}}, api.ErrTypeMismatch},
		{"mixed", [][]any{{1, 2, "a"}, {3, 4, []string{"b"}}}, api.ErrTypeMismatch},
		{"reversed", [][]any{{5, 2, "a"}}, api.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromTuples(tt.tuples...)
			assert.Truef(t, errors.Is(err, tt.want), "got %v, wanted %v", err, tt.want)
		})
	}
}

func TestModifyScenario(t *testing.T) {
	source := api.Text("我想要喝200元的珍奶10杯")
	g, err := FromTuples([]any{4, 7, "_int_"}, []any{11, 13, "_int_"})
	require.NoError(t, err)

	out, err := Apply(source, g)
	require.NoError(t, err)
	assert.Equal(t, "我想要喝_int_元的珍奶_int_杯", out.String())
	assert.Equal(t, out.Len(), OutputLen(source.Len(), g))

	inv, err := Inverse(source, g)
	require.NoError(t, err)
	want, err := FromTuples([]any{4, 9, "200"}, []any{13, 18, "10"})
	require.NoError(t, err)
	assert.True(t, want.Equal(inv), "inverse = %s", inv)

	back, err := Apply(out, inv)
	require.NoError(t, err)
	assert.True(t, source.Equal(back), "got %q", back)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source api.Sequence
		tuples [][]any
	}{
		{"insertions", api.Text("abc"), [][]any{{0, 0, "<"}, {3, 3, ">"}}},
		{"deletions", api.Text("a  b c"), [][]any{{1, 3, ""}, {4, 5, ""}}},
		{"adjacent deletions", api.Text("xaay"), [][]any{{1, 2, ""}, {2, 3, ""}}},
		{"deletion then insertion", api.Text("abcd"), [][]any{{1, 3, ""}, {3, 3, "XY"}}},
		{"insertion then deletion", api.Text("abcd"), [][]any{{1, 1, "XY"}, {1, 3, ""}}},
		{"growth", api.Text("a1b22c"), [][]any{{1, 2, "_int_"}, {3, 5, "_int_"}}},
		{"tokens", api.Tokens([]string{"a", "b", "c"}), [][]any{{1, 2, []string{"b1", "b2"}}, {3, 3, []string{"<eos>"}}}},
		{"ids", api.IDs([]int{1, 2, 3}), [][]any{{0, 1, []int{}}, {2, 3, []int{7, 8}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromTuples(tt.tuples...)
			require.NoError(t, err)
			out, err := Apply(tt.source, g)
			require.NoError(t, err)
			inv, err := Inverse(tt.source, g)
			require.NoError(t, err)
			back, err := Apply(out, inv)
			require.NoError(t, err)
			assert.Truef(t, tt.source.Equal(back), "round trip of %s gave %s", tt.source, back)
		})
	}
}

func TestInverseMergesCollocatedDeletions(t *testing.T) {
	source := api.Text("xaay")
	g, err := FromTuples([]any{1, 2, ""}, []any{2, 3, ""})
	require.NoError(t, err)
	inv, err := Inverse(source, g)
	require.NoError(t, err)
	require.Equal(t, 1, inv.Len())
	assert.Equal(t, Replacement{Start: 1, End: 1, Value: api.Text("aa")}.String(), inv.At(0).String())

	// Hand-built duplicate insertions collapse in the builder: this is the lossy case the merge avoids.
	lossy, err := FromTuples([]any{1, 1, "a"}, []any{1, 1, "a"})
	require.NoError(t, err)
	out, err := Apply(api.Text("xy"), lossy)
	require.NoError(t, err)
	assert.Equal(t, "xay", out.String())
}

func TestApplyErrors(t *testing.T) {
	g, err := FromTuples([]any{0, 1, "x"})
	require.NoError(t, err)

	_, err = Apply(api.Tokens([]string{"a"}), g)
	assert.True(t, errors.Is(err, api.ErrTypeMismatch), "%v", err)

	_, err = Apply(api.Text(""), g)
	assert.True(t, errors.Is(err, api.ErrInvalidRange), "%v", err)

	_, err = Apply(api.Text("abc"), &ReplacementGroup{})
	assert.True(t, errors.Is(err, api.ErrNotFinalized), "%v", err)

	_, err = Inverse(api.Text("abc"), nil)
	assert.True(t, errors.Is(err, api.ErrNotFinalized), "%v", err)
}

func TestSplitAndJoin(t *testing.T) {
	sg, err := SpanGroupFromLengths([]int{2, 1, 3})
	require.NoError(t, err)

	tokens, err := Split(api.Text("ab-cdé"), sg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "-", "cdé"}, tokens.TokenList())

	text, err := Join(tokens, sg)
	require.NoError(t, err)
	assert.Equal(t, "ab-cdé", text.String())

	_, err = Split(api.Text("abc"), sg)
	assert.True(t, errors.Is(err, api.ErrLengthMismatch), "%v", err)

	_, err = Join(api.Tokens([]string{"ab", "--", "cde"}), sg)
	assert.True(t, errors.Is(err, api.ErrLengthMismatch), "%v", err)
}

func TestGenSpanGroup(t *testing.T) {
	sg, err := GenSpanGroup("我想要alvin", []string{"我", "想要", "alvin"})
	require.NoError(t, err)
	assert.Equal(t, []Span{{0, 1}, {1, 3}, {3, 8}}, sg.Spans())

	_, err = GenSpanGroup("a b", []string{"a", "b"})
	assert.True(t, errors.Is(err, api.ErrIncompatibleTokens), "%v", err)

	_, err = GenSpanGroup("ab", []string{"b", "a"})
	assert.True(t, errors.Is(err, api.ErrIncompatibleTokens), "%v", err)

	_, err = GenSpanGroup("abc", []string{"a", "b"})
	assert.True(t, errors.Is(err, api.ErrIncompatibleTokens), "%v", err)
}

func TestGenReplacementGroup(t *testing.T) {
	text := "  12 24\t3666 "
	tokens := []string{"12", "24", "3666"}
	g, err := GenReplacementGroup(text, tokens)
	require.NoError(t, err)
	want, err := FromTuples([]any{0, 2, ""}, []any{4, 5, ""}, []any{7, 8, ""}, []any{12, 13, ""})
	require.NoError(t, err)
	assert.True(t, want.Equal(g), "got %s", g)

	out, err := Apply(api.Text(text), g)
	require.NoError(t, err)
	assert.Equal(t, "12243666", out.String())

	_, err = GenReplacementGroup("abc", []string{"c", "a"})
	assert.True(t, errors.Is(err, api.ErrIncompatibleTokens), "%v", err)
}
