// Package pipeline composes operators into a single transformation, and realigns labels predicted on its
// output back to the input.
//
// A Pipeline is checked when built: each operator must take what the previous one outputs. It holds no
// per-call state, so one Pipeline may be used concurrently, each call getting its own Realigner.
//
// Pipelines are described by a Descriptor, the ordered operator names and options, which a Registry turns
// back into a Pipeline.
package pipeline

import (
	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Pipeline is an ordered list of operators.
type Pipeline struct {
	ops []api.Operator
}

// New returns a pipeline of the given operators. See Add.
func New(ops ...api.Operator) (*Pipeline, error) {
	p := &Pipeline{}
	for _, op := range ops {
		if err := p.Add(op); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends op to the pipeline. It fails with api.ErrTypeMismatch if op doesn't take what the pipeline
// currently outputs.
//
// Add must not be called concurrently with other methods.
func (p *Pipeline) Add(op api.Operator) error {
	if op == nil {
		return errors.New("nil operator")
	}
	if len(p.ops) > 0 && op.InputKind() != p.OutputKind() {
		last := p.ops[len(p.ops)-1]
		return errors.Wrapf(api.ErrTypeMismatch, "operator #%d (%s) takes %s, but operator #%d (%s) outputs %s",
			len(p.ops), op.Name(), op.InputKind(), len(p.ops)-1, last.Name(), last.OutputKind())
	}
	p.ops = append(p.ops, op)
	klog.V(1).Infof("pipeline: added operator #%d %s (%s -> %s)", len(p.ops)-1, op.Name(), op.InputKind(), op.OutputKind())
	return nil
}

// Len returns the number of operators.
func (p *Pipeline) Len() int { return len(p.ops) }

// Operators returns a copy of the list of operators.
func (p *Pipeline) Operators() []api.Operator {
	return append([]api.Operator(nil), p.ops...)
}

// InputKind is the kind of sequence the pipeline takes: the first operator's, or api.KindText if empty.
func (p *Pipeline) InputKind() api.Kind {
	if len(p.ops) == 0 {
		return api.KindText
	}
	return p.ops[0].InputKind()
}

// OutputKind is the kind of sequence the pipeline outputs: the last operator's, or api.KindText if empty.
func (p *Pipeline) OutputKind() api.Kind {
	if len(p.ops) == 0 {
		return api.KindText
	}
	return p.ops[len(p.ops)-1].OutputKind()
}

// Transform threads in through every operator.
//
// If labels is not nil, it must have one label per element of in, and the labels of the output are returned
// as well. The returned Realigner maps labels of the output back to in.
func (p *Pipeline) Transform(in api.Sequence, labels []int) (api.Sequence, []int, *Realigner, error) {
	if in.Kind() != p.InputKind() {
		return api.Sequence{}, nil, nil, errors.Wrapf(api.ErrTypeMismatch, "pipeline takes %s, got %s", p.InputKind(), in.Kind())
	}
	if labels != nil && len(labels) != in.Len() {
		return api.Sequence{}, nil, nil, errors.Wrapf(api.ErrLengthMismatch, "%d labels for an input of %d elements", len(labels), in.Len())
	}

	r := &Realigner{
		names:    make([]string, len(p.ops)),
		aligners: make([]api.Aligner, len(p.ops)),
		inLen:    in.Len(),
	}
	current := in
	for ii, op := range p.ops {
		out, aligner, err := op.Transform(current)
		if err != nil {
			return api.Sequence{}, nil, nil, errors.WithMessagef(err, "operator #%d (%s)", ii, op.Name())
		}
		if labels != nil {
			labels, err = aligner.Forward(labels)
			if err != nil {
				return api.Sequence{}, nil, nil, errors.WithMessagef(err, "operator #%d (%s) labels", ii, op.Name())
			}
		}
		if klog.V(2).Enabled() {
			klog.Infof("pipeline: operator #%d %s: %d -> %d elements", ii, op.Name(), current.Len(), out.Len())
		}
		r.names[ii] = op.Name()
		r.aligners[ii] = aligner
		current = out
	}
	r.outLen = current.Len()
	return current, labels, r, nil
}

// Descriptor returns the description of the pipeline, from which a Registry can rebuild it.
func (p *Pipeline) Descriptor() (Descriptor, error) {
	d := make(Descriptor, len(p.ops))
	for ii, op := range p.ops {
		step, err := NewStep(op)
		if err != nil {
			return nil, errors.WithMessagef(err, "operator #%d (%s)", ii, op.Name())
		}
		d[ii] = step
	}
	return d, nil
}

// Realigner maps labels of a pipeline output back to its input, applying the aligners of one
// Pipeline.Transform call backward, in reverse order.
type Realigner struct {
	names         []string
	aligners      []api.Aligner
	inLen, outLen int
}

// Realign returns the labels of the pipeline input, given labels of its output (e.g. model predictions).
// It fails with api.ErrLengthMismatch if len(labels) is not the output length.
func (r *Realigner) Realign(labels []int) ([]int, error) {
	if len(labels) != r.outLen {
		return nil, errors.Wrapf(api.ErrLengthMismatch, "realign expects %d labels, got %d", r.outLen, len(labels))
	}
	out := append([]int(nil), labels...)
	for ii := len(r.aligners) - 1; ii >= 0; ii-- {
		var err error
		out, err = r.aligners[ii].Backward(out)
		if err != nil {
			return nil, errors.WithMessagef(err, "realigning operator #%d (%s)", ii, r.names[ii])
		}
		klog.V(2).Infof("pipeline: realigned through operator #%d %s: %d labels", ii, r.names[ii], len(out))
	}
	return out, nil
}

// InputLen is the length of the pipeline input the Realigner maps back to.
func (r *Realigner) InputLen() int { return r.inLen }

// OutputLen is the length of the pipeline output, the number of labels Realign takes.
func (r *Realigner) OutputLen() int { return r.outLen }

// Aligner returns the aligner of the i-th operator, to map labels to or from an intermediate sequence.
func (r *Realigner) Aligner(i int) api.Aligner { return r.aligners[i] }
