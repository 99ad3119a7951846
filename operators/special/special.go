// Package special adds and removes special tokens: padding to a fixed length, start and end of sequence
// markers.
//
// Special tokens are always labeled api.NotEntity.
package special

import (
	"encoding/json"

	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/edit"
	"github.com/gomlx/go-textalign/labels"
	"github.com/gomlx/go-textalign/operators"
	"github.com/pkg/errors"
)

// Registry names.
const (
	PadName       = "Pad"
	AddSosEosName = "AddSosEos"
)

// Default special tokens.
const (
	DefaultPadToken = "<pad>"
	DefaultSos      = "<sos>"
	DefaultEos      = "<eos>"
)

// PadOptions configures Pad.
type PadOptions struct {
	// MaxLen is the output length. Must be > 0.
	MaxLen int `json:"max_len" yaml:"max_len"`

	// PadToken defaults to "<pad>".
	PadToken string `json:"pad_token,omitempty" yaml:"pad_token,omitempty"`
}

// Pad pads a token sequence to MaxLen with PadToken, or truncates it to MaxLen.
//
// Realignment restores the truncated tokens with api.NotEntity labels.
type Pad struct {
	operators.Base
	options PadOptions
}

// Compile time assert that Pad implements api.Operator.
var _ api.Operator = &Pad{}

// NewPad returns the Pad operator.
func NewPad(options PadOptions) (*Pad, error) {
	if options.MaxLen <= 0 {
		return nil, errors.Errorf("%s: max_len must be > 0, got %d", PadName, options.MaxLen)
	}
	if options.PadToken == "" {
		options.PadToken = DefaultPadToken
	}
	return &Pad{
		Base:    operators.NewBase(PadName, api.KindTokens, api.KindTokens),
		options: options,
	}, nil
}

// NewPadFromOptions implements the registry factory.
func NewPadFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options PadOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewPad(options)
}

// Transform implements api.Operator.
func (op *Pad) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	n, maxLen := in.Len(), op.options.MaxLen
	b := edit.NewReplacementGroupBuilder()
	switch {
	case n < maxLen:
		pads := make([]string, maxLen-n)
		for ii := range pads {
			pads[ii] = op.options.PadToken
		}
		if err := b.AddTokens(n, n, pads); err != nil {
			return api.Sequence{}, nil, err
		}
	case n > maxLen:
		if err := b.AddTokens(maxLen, n, nil); err != nil {
			return api.Sequence{}, nil, err
		}
	}
	g, err := b.Finalize()
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, labels.NotEntity, labels.NotEntity)
}

// Options implements api.Operator.
func (op *Pad) Options() any { return op.options }

// SosEosOptions configures AddSosEos.
type SosEosOptions struct {
	// Start of sequence token, defaults to "<sos>".
	Start string `json:"start,omitempty" yaml:"start,omitempty"`

	// End of sequence token, defaults to "<eos>".
	End string `json:"end,omitempty" yaml:"end,omitempty"`
}

// AddSosEos surrounds a token sequence with start and end of sequence tokens.
type AddSosEos struct {
	operators.Base
	options SosEosOptions
}

// Compile time assert that AddSosEos implements api.Operator.
var _ api.Operator = &AddSosEos{}

// NewAddSosEos returns the AddSosEos operator.
func NewAddSosEos(options SosEosOptions) *AddSosEos {
	if options.Start == "" {
		options.Start = DefaultSos
	}
	if options.End == "" {
		options.End = DefaultEos
	}
	return &AddSosEos{
		Base:    operators.NewBase(AddSosEosName, api.KindTokens, api.KindTokens),
		options: options,
	}
}

// NewAddSosEosFromOptions implements the registry factory.
func NewAddSosEosFromOptions(raw json.RawMessage) (api.Operator, error) {
	var options SosEosOptions
	if err := operators.DecodeOptions(raw, &options); err != nil {
		return nil, err
	}
	return NewAddSosEos(options), nil
}

// Transform implements api.Operator.
func (op *AddSosEos) Transform(in api.Sequence) (api.Sequence, api.Aligner, error) {
	if err := op.CheckInput(in); err != nil {
		return api.Sequence{}, nil, err
	}
	n := in.Len()
	b := edit.NewReplacementGroupBuilder()
	var err error
	if n == 0 {
		// Two insertions at the same position would be ordered by value.
		err = b.AddTokens(0, 0, []string{op.options.Start, op.options.End})
	} else {
		err = b.AddTokens(0, 0, []string{op.options.Start})
		if err == nil {
			err = b.AddTokens(n, n, []string{op.options.End})
		}
	}
	if err != nil {
		return api.Sequence{}, nil, err
	}
	g, err := b.Finalize()
	if err != nil {
		return api.Sequence{}, nil, err
	}
	return operators.ApplyReplacements(in, g, labels.NotEntity, labels.NotEntity)
}

// Options implements api.Operator.
func (op *AddSosEos) Options() any { return op.options }
