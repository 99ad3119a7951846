// Package api defines the Operator and Aligner contracts, the Sequence type they exchange and the
// error kinds shared by every package of the module.
// It's kept dependency free (apart from errors) so the engine packages and the operators can all import it
// without cycles.
package api

// NotEntity is the label value meaning "no annotation".
const NotEntity = 0

// Kind is the element kind of a Sequence.
type Kind int

const (
	// KindText is a string, whose elements are Unicode code points.
	KindText Kind = iota
	// KindTokens is a list of token strings.
	KindTokens
	// KindIDs is a list of integer token ids.
	KindIDs
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTokens:
		return "tokens"
	case KindIDs:
		return "ids"
	default:
		return "unknown"
	}
}

// Operator transforms one Sequence into another and describes the transformation with an Aligner.
//
// Operators are immutable once constructed and can be used concurrently: all per-call state lives in
// the returned Aligner.
type Operator interface {
	// Name is the registry name of the operator.
	Name() string

	// InputKind and OutputKind are the declared element kinds. Transform fails with ErrTypeMismatch
	// if given a sequence of another kind.
	InputKind() Kind
	OutputKind() Kind

	// Transform returns the transformed sequence and the aligner bound to this specific input/output pair.
	Transform(in Sequence) (Sequence, Aligner, error)

	// Options returns the configuration the operator was built with. It must be serializable to JSON,
	// and decoding it back through the operator's registered factory must yield an equivalent operator.
	Options() any
}

// Aligner maps labels across one transformation.
//
// Forward takes labels parallel to the operator's input and returns labels parallel to its output.
// Backward does the opposite and is used to realign model predictions to the original text.
// Both fail with ErrLengthMismatch if the labels don't have the expected length, and both are pure:
// they can be called any number of times.
type Aligner interface {
	Forward(labels []int) ([]int, error)
	Backward(labels []int) ([]int, error)

	// InputLen and OutputLen are the lengths of the two sequences the aligner bridges.
	InputLen() int
	OutputLen() int
}
