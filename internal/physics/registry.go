package physics

import (
	"fmt"
	"sort"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "product_sine"

type Registry struct {
	models map[string]func() dynamo.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() dynamo.Model),
	}

	r.models["product_sine"] = func() dynamo.Model { return NewProductSine() }
	r.models["coupled"] = func() dynamo.Model { return NewCoupled() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() dynamo.Model) {
	r.models[name] = fn
}

// Get returns a fresh instance of the named model.
func (r *Registry) Get(name string) (dynamo.Model, error) {
	if name == "" {
		name = DefaultModel
	}
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, name)
	}
	return fn(), nil
}

// GetConfigured returns the named model with params applied.
func (r *Registry) GetConfigured(name string, params map[string]float64) (dynamo.Model, error) {
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return m, nil
	}
	cfg, ok := m.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("model %s takes no parameters", m.Name())
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := cfg.SetParam(k, params[k]); err != nil {
			return nil, fmt.Errorf("model %s: %w", m.Name(), err)
		}
	}
	return m, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
