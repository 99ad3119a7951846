package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gomlx/go-textalign/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Factory builds an operator from its JSON options. Empty options mean the operator's defaults.
type Factory func(raw json.RawMessage) (api.Operator, error)

// Registry maps operator names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. It fails with api.ErrDuplicateOperator if name is already registered.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return errors.Errorf("invalid registration of operator %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.factories[name]; found {
		return errors.Wrapf(api.ErrDuplicateOperator, "operator %q", name)
	}
	r.factories[name] = factory
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the operator registered as name. It fails with api.ErrUnknownOperator if there is none.
func (r *Registry) New(name string, raw json.RawMessage) (api.Operator, error) {
	r.mu.RLock()
	factory, found := r.factories[name]
	r.mu.RUnlock()
	if !found {
		return nil, errors.Wrapf(api.ErrUnknownOperator, "operator %q", name)
	}
	if len(raw) == 0 {
		klog.V(1).Infof("registry: no options for %s, using defaults", name)
	}
	op, err := factory(raw)
	if err != nil {
		return nil, errors.WithMessagef(err, "building operator %s", name)
	}
	return op, nil
}

// Build returns the pipeline described by d.
func (r *Registry) Build(d Descriptor) (*Pipeline, error) {
	klog.V(1).Infof("registry: building pipeline of %d steps", len(d))
	p := &Pipeline{}
	for ii, step := range d {
		op, err := r.New(step.Name, step.Options)
		if err != nil {
			return nil, errors.WithMessagef(err, "step #%d", ii)
		}
		if err := p.Add(op); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FromJSON builds the pipeline of a JSON descriptor.
func (r *Registry) FromJSON(data []byte) (*Pipeline, error) {
	d, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return r.Build(d)
}

// FromYAML builds the pipeline of a YAML descriptor.
func (r *Registry) FromYAML(data []byte) (*Pipeline, error) {
	d, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return r.Build(d)
}

// LoadFile builds the pipeline of a descriptor file: YAML for the ".yaml" and ".yml" extensions, JSON
// otherwise.
func (r *Registry) LoadFile(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read pipeline descriptor %q", path)
	}
	var p *Pipeline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		p, err = r.FromYAML(data)
	default:
		p, err = r.FromJSON(data)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "pipeline descriptor %q", path)
	}
	return p, nil
}
