package labels

import (
	"github.com/gomlx/go-textalign/api"
	"github.com/gomlx/go-textalign/edit"
	"github.com/pkg/errors"
)

// PropagateByReplacementGroup returns the labels of Apply(source, g), given the labels of source.
//
// Labels of untouched elements are copied; the labels of each replacement are reduce(labels[start:end], len(value)).
// The output has len(labels) + Σ(len(value) - (end - start)) labels.
func PropagateByReplacementGroup(labels []int, g *edit.ReplacementGroup, reduce ReduceFunc) ([]int, error) {
	if err := g.Check(); err != nil {
		return nil, err
	}
	if n := g.Len(); n > 0 {
		if last := g.At(n - 1); last.End > len(labels) {
			return nil, errors.Wrapf(api.ErrLengthMismatch, "replacement %s past the end of %d labels", last, len(labels))
		}
	}
	out := make([]int, 0, edit.OutputLen(len(labels), g))
	cursor := 0
	for ii := range g.Len() {
		r := g.At(ii)
		out = append(out, labels[cursor:r.Start]...)
		size := r.Value.Len()
		reduced := reduce(labels[r.Start:r.End:r.End], size)
		if len(reduced) != size {
			return nil, errors.Wrapf(api.ErrLengthMismatch, "reduce function returned %d labels for replacement %s of size %d", len(reduced), r, size)
		}
		out = append(out, reduced...)
		cursor = r.End
	}
	out = append(out, labels[cursor:]...)
	return out, nil
}

// ReduceBySpanGroup returns one label per span, reduced from the labels of its elements: it maps the labels of
// a text to the labels of the tokens it was cut into. len(labels) must be the span group total.
func ReduceBySpanGroup(labels []int, sg *edit.SpanGroup, reduce ReduceFunc) ([]int, error) {
	if err := sg.Check(); err != nil {
		return nil, err
	}
	if len(labels) != sg.Total() {
		return nil, errors.Wrapf(api.ErrLengthMismatch, "%d labels for a span group covering %d elements", len(labels), sg.Total())
	}
	out := make([]int, sg.Len())
	for ii := range sg.Len() {
		s := sg.At(ii)
		reduced := reduce(labels[s.Start:s.End:s.End], 1)
		if len(reduced) != 1 {
			return nil, errors.Wrapf(api.ErrLengthMismatch, "reduce function returned %d labels for span %s, wanted 1", len(reduced), s)
		}
		out[ii] = reduced[0]
	}
	return out, nil
}

// ExpandBySpanGroup is the reverse of ReduceBySpanGroup: each span's label is broadcast to all its elements.
// len(labels) must be the number of spans.
func ExpandBySpanGroup(labels []int, sg *edit.SpanGroup) ([]int, error) {
	if err := sg.Check(); err != nil {
		return nil, err
	}
	if len(labels) != sg.Len() {
		return nil, errors.Wrapf(api.ErrLengthMismatch, "%d labels for a span group of %d spans", len(labels), sg.Len())
	}
	out := make([]int, 0, sg.Total())
	for ii, l := range labels {
		for range sg.At(ii).Len() {
			out = append(out, l)
		}
	}
	return out, nil
}
