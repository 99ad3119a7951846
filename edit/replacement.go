package edit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
)

// Replacement replaces the elements [Start, End) of a sequence with Value.
//
// Value's kind is the variant of the replacement: text replacements apply to texts, token replacements
// to token lists. Start == End is a pure insertion, an empty Value a deletion.
type Replacement struct {
	Start, End int
	Value      api.Sequence

	// Annotation is an optional free-form note (e.g. the rule that produced the edit).
	// It doesn't participate in Equal, but it does in the builder's de-duplication key.
	Annotation string
}

// NewReplacement validates the range and returns the replacement.
func NewReplacement(start, end int, value api.Sequence, annotation string) (Replacement, error) {
	if _, err := NewSpan(start, end); err != nil {
		return Replacement{}, errors.WithMessagef(err, "replacement with %q", value)
	}
	return Replacement{Start: start, End: end, Value: value, Annotation: annotation}, nil
}

// Kind returns the variant of the replacement.
func (r Replacement) Kind() api.Kind { return r.Value.Kind() }

// Span returns the replaced range [Start, End) in the source coordinates.
func (r Replacement) Span() Span { return Span{Start: r.Start, End: r.End} }

// Delta is the change in length the replacement causes.
func (r Replacement) Delta() int { return r.Value.Len() - (r.End - r.Start) }

// Equal compares range and value. Annotation is ignored.
func (r Replacement) Equal(other Replacement) bool {
	return r.Start == other.Start && r.End == other.End && r.Value.Equal(other.Value)
}

// key identifies the replacement including its annotation.
func (r Replacement) key() string {
	return fmt.Sprintf("%d:%d:%s:%q", r.Start, r.End, r.Value.Key(), r.Annotation)
}

// String implements fmt.Stringer.
func (r Replacement) String() string {
	if r.Annotation != "" {
		return fmt.Sprintf("(%d, %d, %q, %q)", r.Start, r.End, r.Value.String(), r.Annotation)
	}
	return fmt.Sprintf("(%d, %d, %q)", r.Start, r.End, r.Value.String())
}

// ReplacementGroup is an ordered set of disjoint replacements of the same kind over one sequence,
// describing one transformation pass. The empty group is the identity.
//
// It can only be created by ReplacementGroupBuilder.Finalize (or FromTuples), and it is read-only.
type ReplacementGroup struct {
	replacements []Replacement
	kind         api.Kind
	finalized    bool
}

// ReplacementGroupBuilder accumulates replacements in any order. Identical replacements collapse into one.
type ReplacementGroupBuilder struct {
	seen         map[string]bool
	replacements []Replacement
	kind         api.Kind
	hasKind      bool
}

// NewReplacementGroupBuilder returns an empty builder.
func NewReplacementGroupBuilder() *ReplacementGroupBuilder {
	return &ReplacementGroupBuilder{seen: make(map[string]bool)}
}

// Add a replacement of [start, end) by value.
// It fails with ErrInvalidRange for a bad range, or ErrTypeMismatch if value's kind differs from the
// kind of the first replacement added.
func (b *ReplacementGroupBuilder) Add(start, end int, value api.Sequence) error {
	return b.AddAnnotated(start, end, value, "")
}

// AddText is Add with a text value.
func (b *ReplacementGroupBuilder) AddText(start, end int, value string) error {
	return b.AddAnnotated(start, end, api.Text(value), "")
}

// AddTokens is Add with a token list value.
func (b *ReplacementGroupBuilder) AddTokens(start, end int, value []string) error {
	return b.AddAnnotated(start, end, api.Tokens(value), "")
}

// AddAnnotated is Add with an annotation.
func (b *ReplacementGroupBuilder) AddAnnotated(start, end int, value api.Sequence, annotation string) error {
	r, err := NewReplacement(start, end, value, annotation)
	if err != nil {
		return err
	}
	return b.AddReplacement(r)
}

// AddReplacement adds an already built replacement.
func (b *ReplacementGroupBuilder) AddReplacement(r Replacement) error {
	if _, err := NewSpan(r.Start, r.End); err != nil {
		return err
	}
	if !b.hasKind {
		b.kind, b.hasKind = r.Kind(), true
	} else if r.Kind() != b.kind {
		return errors.Wrapf(api.ErrTypeMismatch, "replacement %s is %s, group is %s", r, r.Kind(), b.kind)
	}
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	key := r.key()
	if b.seen[key] {
		return nil
	}
	b.seen[key] = true
	b.replacements = append(b.replacements, r)
	return nil
}

// Len returns the number of distinct replacements added so far.
func (b *ReplacementGroupBuilder) Len() int { return len(b.replacements) }

// Finalize sorts the replacements by (start, end) and checks that they are disjoint: it fails with
// ErrOverlapping if a replacement starts before the previous one ends. Adjacent replacements
// (end == next start) are fine, including several insertions at the same position.
func (b *ReplacementGroupBuilder) Finalize() (*ReplacementGroup, error) {
	rs := slices.Clone(b.replacements)
	slices.SortStableFunc(rs, compareReplacements)
	for ii := 1; ii < len(rs); ii++ {
		if rs[ii].Start < rs[ii-1].End {
			return nil, errors.Wrapf(api.ErrOverlapping, "replacements %s and %s", rs[ii-1], rs[ii])
		}
	}
	return &ReplacementGroup{replacements: rs, kind: b.kind, finalized: true}, nil
}

func compareReplacements(x, y Replacement) int {
	if x.Start != y.Start {
		return x.Start - y.Start
	}
	if x.End != y.End {
		return x.End - y.End
	}
	if c := strings.Compare(x.Value.Key(), y.Value.Key()); c != 0 {
		return c
	}
	return strings.Compare(x.Annotation, y.Annotation)
}

// FromTuples builds and finalizes a group from tuples (start, end, value) or (start, end, value, annotation).
//
// start and end must be ints; value a string (text), a []string (tokens), a []int (ids) or an api.Sequence;
// annotation a string. Any other length fails with ErrArity, any other element type with ErrTypeMismatch.
func FromTuples(tuples ...[]any) (*ReplacementGroup, error) {
	b := NewReplacementGroupBuilder()
	for ii, t := range tuples {
		if len(t) != 3 && len(t) != 4 {
			return nil, errors.Wrapf(api.ErrArity, "tuple #%d has %d elements, wanted 3 or 4", ii, len(t))
		}
		start, ok1 := t[0].(int)
		end, ok2 := t[1].(int)
		if !ok1 || !ok2 {
			return nil, errors.Wrapf(api.ErrTypeMismatch, "tuple #%d: start and end must be int, got %T and %T", ii, t[0], t[1])
		}
		var value api.Sequence
		switch v := t[2].(type) {
		case string:
			value = api.Text(v)
		case []string:
			value = api.Tokens(v)
		case []int:
			value = api.IDs(v)
		case api.Sequence:
			value = v
		default:
			return nil, errors.Wrapf(api.ErrTypeMismatch, "tuple #%d: unsupported value type %T", ii, t[2])
		}
		var annotation string
		if len(t) == 4 {
			a, ok := t[3].(string)
			if !ok {
				return nil, errors.Wrapf(api.ErrTypeMismatch, "tuple #%d: annotation must be a string, got %T", ii, t[3])
			}
			annotation = a
		}
		if err := b.AddAnnotated(start, end, value, annotation); err != nil {
			return nil, errors.WithMessagef(err, "tuple #%d", ii)
		}
	}
	return b.Finalize()
}

// Identity returns the finalized empty group.
func Identity() *ReplacementGroup {
	return &ReplacementGroup{finalized: true}
}

// Check returns ErrNotFinalized if g wasn't created by a builder's Finalize.
func (g *ReplacementGroup) Check() error {
	if g == nil || !g.finalized {
		return errors.WithStack(api.ErrNotFinalized)
	}
	return nil
}

// Len returns the number of replacements.
func (g *ReplacementGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.replacements)
}

// At returns the i-th replacement, in (start, end) order.
func (g *ReplacementGroup) At(i int) Replacement {
	return g.replacements[i]
}

// Replacements returns a copy of the replacements.
func (g *ReplacementGroup) Replacements() []Replacement {
	if g == nil {
		return nil
	}
	return slices.Clone(g.replacements)
}

// Kind returns the variant shared by all replacements. ok is false for an empty group, which
// applies to sequences of any kind.
func (g *ReplacementGroup) Kind() (kind api.Kind, ok bool) {
	if g.Len() == 0 {
		return 0, false
	}
	return g.kind, true
}

// IsIdentity returns whether the group has no replacements.
func (g *ReplacementGroup) IsIdentity() bool { return g.Len() == 0 }

// Equal compares two groups element-wise with Replacement.Equal.
func (g *ReplacementGroup) Equal(other *ReplacementGroup) bool {
	return slices.EqualFunc(g.Replacements(), other.Replacements(), Replacement.Equal)
}

// String implements fmt.Stringer.
func (g *ReplacementGroup) String() string {
	parts := make([]string, 0, g.Len())
	for _, r := range g.Replacements() {
		parts = append(parts, r.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
