package api

import "github.com/pkg/errors"

// Error kinds. Functions of this module return them wrapped with the offending indices or names,
// use errors.Is to test for a kind.
var (
	// ErrInvalidRange is returned for start > end, negative positions or positions past the end of a sequence.
	ErrInvalidRange = errors.New("invalid range")

	// ErrOverlapping is returned when two spans or replacements intersect where they must be disjoint.
	ErrOverlapping = errors.New("overlapping ranges")

	// ErrNotContiguous is returned when a span group doesn't tile [0, N) exactly.
	ErrNotContiguous = errors.New("spans not contiguous")

	// ErrTypeMismatch is returned for mixed element kinds in one group, or a sequence of the wrong kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArity is returned for malformed tuples given to bulk constructors.
	ErrArity = errors.New("wrong number of elements")

	// ErrLengthMismatch is returned when a label array doesn't parallel the sequence it should.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrIncompatibleTokens is returned when a tokenizer's output can't be reconciled with its input text.
	ErrIncompatibleTokens = errors.New("incompatible tokens")

	// ErrNotFinalized is returned when a group that wasn't produced by a builder's Finalize is used.
	ErrNotFinalized = errors.New("group not finalized")

	// ErrUnknownOperator is returned by registry lookups of unregistered names.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrDuplicateOperator is returned when registering a name twice.
	ErrDuplicateOperator = errors.New("duplicate operator")
)
