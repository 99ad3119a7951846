// Package datum converts annotated utterances, a text with its entities, to and from the per code point label
// arrays the pipelines work with.
package datum

import (
	"slices"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
)

// Entity is a labeled range [Start, End) of an utterance, in code points.
type Entity struct {
	Label int    `json:"label" yaml:"label"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Datum is an utterance with its entities.
type Datum struct {
	Utterance string   `json:"utterance" yaml:"utterance"`
	Entities  []Entity `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// Validate checks that entities are non-empty ranges within the utterance (api.ErrInvalidRange), with a
// label other than api.NotEntity, and that they don't overlap (api.ErrOverlapping).
func (d Datum) Validate() error {
	n := len([]rune(d.Utterance))
	for ii, e := range d.Entities {
		if e.Start < 0 || e.End <= e.Start || e.End > n {
			return errors.Wrapf(api.ErrInvalidRange, "entity #%d [%d, %d) in an utterance of %d code points", ii, e.Start, e.End, n)
		}
		if e.Label == api.NotEntity {
			return errors.Wrapf(api.ErrInvalidRange, "entity #%d [%d, %d) has the label reserved for non-entities", ii, e.Start, e.End)
		}
	}
	sorted := slices.Clone(d.Entities)
	slices.SortFunc(sorted, func(x, y Entity) int { return x.Start - y.Start })
	for ii := 1; ii < len(sorted); ii++ {
		prev, e := sorted[ii-1], sorted[ii]
		if e.Start < prev.End {
			return errors.Wrapf(api.ErrOverlapping, "entities [%d, %d) and [%d, %d)", prev.Start, prev.End, e.Start, e.End)
		}
	}
	return nil
}

// Labels returns one label per code point of the utterance: the label of the entity covering it, or
// api.NotEntity.
func (d Datum) Labels() ([]int, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	labels := make([]int, len([]rune(d.Utterance)))
	for _, e := range d.Entities {
		for ii := e.Start; ii < e.End; ii++ {
			labels[ii] = e.Label
		}
	}
	return labels, nil
}

// FromLabels returns the datum whose Labels are labels: each maximal run of the same label, other than
// api.NotEntity, is an entity. It fails with api.ErrLengthMismatch if labels doesn't have one label per
// code point of utterance.
func FromLabels(utterance string, labels []int) (Datum, error) {
	runes := []rune(utterance)
	if len(labels) != len(runes) {
		return Datum{}, errors.Wrapf(api.ErrLengthMismatch, "%d labels for an utterance of %d code points", len(labels), len(runes))
	}
	d := Datum{Utterance: utterance}
	for start := 0; start < len(labels); {
		end := start + 1
		for end < len(labels) && labels[end] == labels[start] {
			end++
		}
		if labels[start] != api.NotEntity {
			d.Entities = append(d.Entities, Entity{
				Label: labels[start],
				Start: start,
				End:   end,
				Value: string(runes[start:end]),
			})
		}
		start = end
	}
	return d, nil
}

// LabelSet maps entity type names to labels, 1, 2, ... in the order given. api.NotEntity (0) is reserved.
type LabelSet struct {
	names []string
	ids   map[string]int
}

// NewLabelSet returns the label set of the given names. It fails on empty or duplicate names.
func NewLabelSet(names ...string) (*LabelSet, error) {
	ls := &LabelSet{names: slices.Clone(names), ids: make(map[string]int, len(names))}
	for ii, name := range names {
		if name == "" {
			return nil, errors.Errorf("empty entity name at #%d", ii)
		}
		if _, found := ls.ids[name]; found {
			return nil, errors.Errorf("duplicate entity name %q", name)
		}
		ls.ids[name] = ii + 1
	}
	return ls, nil
}

// Label returns the label of an entity name.
func (ls *LabelSet) Label(name string) (label int, ok bool) {
	label, ok = ls.ids[name]
	return
}

// Name returns the entity name of label, "" for api.NotEntity or an unknown label.
func (ls *LabelSet) Name(label int) string {
	if label < 1 || label > len(ls.names) {
		return ""
	}
	return ls.names[label-1]
}

// Len returns the number of entity names.
func (ls *LabelSet) Len() int { return len(ls.names) }
