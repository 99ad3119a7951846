package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Step describes one operator: its registry name and its options as JSON.
type Step struct {
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options,omitempty"`
}

// NewStep returns the step describing op.
func NewStep(op api.Operator) (Step, error) {
	raw, err := json.Marshal(op.Options())
	if err != nil {
		return Step{}, errors.Wrapf(err, "failed to serialize options of %s", op.Name())
	}
	return Step{Name: op.Name(), Options: raw}, nil
}

// Descriptor is the serializable description of a pipeline: its ordered steps.
type Descriptor []Step

// Equal returns whether both descriptors have the same steps, with equivalent options (insignificant JSON
// whitespace and an absent versus an empty "{}" object are ignored).
func (d Descriptor) Equal(other Descriptor) bool {
	if len(d) != len(other) {
		return false
	}
	for ii := range d {
		if d[ii].Name != other[ii].Name {
			return false
		}
		a, errA := canonicalOptions(d[ii].Options)
		b, errB := canonicalOptions(other[ii].Options)
		if errA != nil || errB != nil || !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}

// canonicalOptions re-encodes options so equal values give equal bytes (json.Marshal sorts map keys).
func canonicalOptions(raw json.RawMessage) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(raw) == "null" {
		return []byte("{}"), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// JSON returns the JSON form of the descriptor, a list of {"name", "options"} objects.
func (d Descriptor) JSON() ([]byte, error) {
	return json.MarshalIndent([]Step(d), "", "  ")
}

// ParseJSON parses the JSON form of a descriptor. Unknown fields are rejected.
func ParseJSON(data []byte) (Descriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var steps []Step
	if err := dec.Decode(&steps); err != nil {
		return nil, errors.Wrap(err, "failed to parse pipeline descriptor")
	}
	return Descriptor(steps), nil
}

// yamlStep is the YAML form of a Step: options are a YAML mapping instead of embedded JSON.
type yamlStep struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// YAML returns the YAML form of the descriptor, for human-edited configurations.
func (d Descriptor) YAML() ([]byte, error) {
	steps := make([]yamlStep, len(d))
	for ii, step := range d {
		steps[ii].Name = step.Name
		if len(step.Options) > 0 {
			if err := json.Unmarshal(step.Options, &steps[ii].Options); err != nil {
				return nil, errors.Wrapf(err, "step #%d (%s) options", ii, step.Name)
			}
		}
	}
	return yaml.Marshal(steps)
}

// ParseYAML parses the YAML form of a descriptor. Unknown step fields are rejected; options are validated
// by the operator factories.
func ParseYAML(data []byte) (Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var steps []yamlStep
	if err := dec.Decode(&steps); err != nil {
		return nil, errors.Wrap(err, "failed to parse pipeline descriptor")
	}
	d := make(Descriptor, len(steps))
	for ii, step := range steps {
		d[ii].Name = step.Name
		if step.Options == nil {
			continue
		}
		raw, err := json.Marshal(step.Options)
		if err != nil {
			return nil, errors.Wrapf(err, "step #%d (%s) options", ii, step.Name)
		}
		d[ii].Options = raw
	}
	return d, nil
}
