package api

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sequence is an immutable sequence of elements of one Kind: code points of a text, token strings or token ids.
//
// The zero value is an empty text.
type Sequence struct {
	kind   Kind
	runes  []rune
	tokens []string
	ids    []int
}

// Text creates a KindText sequence. Its elements (and all positions into it) are Unicode code points.
func Text(s string) Sequence {
	return Sequence{kind: KindText, runes: []rune(s)}
}

// TextFromRunes creates a KindText sequence from code points. The slice is copied.
func TextFromRunes(r []rune) Sequence {
	return Sequence{kind: KindText, runes: slices.Clone(r)}
}

// Tokens creates a KindTokens sequence. The slice is copied.
func Tokens(tokens []string) Sequence {
	return Sequence{kind: KindTokens, tokens: slices.Clone(tokens)}
}

// IDs creates a KindIDs sequence. The slice is copied.
func IDs(ids []int) Sequence {
	return Sequence{kind: KindIDs, ids: slices.Clone(ids)}
}

// Empty returns an empty sequence of the given kind.
func Empty(kind Kind) Sequence {
	return Sequence{kind: kind}
}

// Kind returns the element kind.
func (s Sequence) Kind() Kind { return s.kind }

// Len returns the number of elements: code points for text, tokens or ids for lists.
func (s Sequence) Len() int {
	switch s.kind {
	case KindTokens:
		return len(s.tokens)
	case KindIDs:
		return len(s.ids)
	default:
		return len(s.runes)
	}
}

// Slice returns the elements in [start, end). It panics if the range is out of bounds, like a Go slice expression.
func (s Sequence) Slice(start, end int) Sequence {
	switch s.kind {
	case KindTokens:
		return Sequence{kind: KindTokens, tokens: s.tokens[start:end:end]}
	case KindIDs:
		return Sequence{kind: KindIDs, ids: s.ids[start:end:end]}
	default:
		return Sequence{kind: KindText, runes: s.runes[start:end:end]}
	}
}

// Concat concatenates sequences of the given kind. It returns ErrTypeMismatch if any part is of another kind.
func Concat(kind Kind, parts ...Sequence) (Sequence, error) {
	out := Sequence{kind: kind}
	for ii, p := range parts {
		if p.kind != kind {
			return Sequence{}, errors.Wrapf(ErrTypeMismatch, "concat part #%d is %s, wanted %s", ii, p.kind, kind)
		}
		switch kind {
		case KindTokens:
			out.tokens = append(out.tokens, p.tokens...)
		case KindIDs:
			out.ids = append(out.ids, p.ids...)
		default:
			out.runes = append(out.runes, p.runes...)
		}
	}
	return out, nil
}

// Equal returns whether both sequences have the same kind and elements.
func (s Sequence) Equal(other Sequence) bool {
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case KindTokens:
		return slices.Equal(s.tokens, other.tokens)
	case KindIDs:
		return slices.Equal(s.ids, other.ids)
	default:
		return slices.Equal(s.runes, other.runes)
	}
}

// String returns the text for KindText, and a readable rendering for lists.
func (s Sequence) String() string {
	switch s.kind {
	case KindTokens:
		return fmt.Sprintf("%q", s.tokens)
	case KindIDs:
		return fmt.Sprint(s.ids)
	default:
		return string(s.runes)
	}
}

// Key returns a string that uniquely identifies kind and contents, usable as a map key.
func (s Sequence) Key() string {
	var sb strings.Builder
	sb.WriteString(s.kind.String())
	sb.WriteByte(':')
	switch s.kind {
	case KindTokens:
		for _, t := range s.tokens {
			sb.WriteString(strconv.Quote(t))
		}
	case KindIDs:
		for _, id := range s.ids {
			sb.WriteString(strconv.Itoa(id))
			sb.WriteByte(',')
		}
	default:
		sb.WriteString(strconv.Quote(string(s.runes)))
	}
	return sb.String()
}

// Runes returns a copy of the code points of a text. It returns nil for other kinds.
func (s Sequence) Runes() []rune {
	if s.kind != KindText {
		return nil
	}
	return slices.Clone(s.runes)
}

// TokenList returns a copy of the tokens. It returns nil for other kinds.
func (s Sequence) TokenList() []string {
	if s.kind != KindTokens {
		return nil
	}
	return slices.Clone(s.tokens)
}

// IDList returns a copy of the ids. It returns nil for other kinds.
func (s Sequence) IDList() []int {
	if s.kind != KindIDs {
		return nil
	}
	return slices.Clone(s.ids)
}

// TokenAt returns the i-th token of a KindTokens sequence.
func (s Sequence) TokenAt(i int) string {
	return s.tokens[i]
}

// RuneAt returns the i-th code point of a KindText sequence.
func (s Sequence) RuneAt(i int) rune {
	return s.runes[i]
}
