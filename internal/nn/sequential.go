package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/convviz/internal/tensor"
)

// Sequential is a container module that chains named modules together.
//
// Each module's output becomes the next module's input. Names identify
// modules for introspection (ForwardCapture, Conv) and prefix their
// parameters in state dicts ("conv1.weight").
//
// Example:
//
//	model := nn.NewSequential[B]().
//	    Add("conv1", nn.NewConv2D(1, 20, 5, 5, 1, 0, true, backend)).
//	    Add("relu1", nn.NewReLU[B]()).
//	    Add("pool1", nn.NewMaxPool2D(2, 2, backend))
//
//	output := model.Forward(input)
type Sequential[B tensor.Backend] struct {
	names   []string
	modules []Module[B]
}

// NewSequential creates an empty Sequential container.
func NewSequential[B tensor.Backend]() *Sequential[B] {
	return &Sequential[B]{}
}

// Add appends a named module and returns the container for chaining.
//
// Panics if the name is empty, contains a '.', or is already taken.
func (s *Sequential[B]) Add(name string, module Module[B]) *Sequential[B] {
	if name == "" || strings.Contains(name, ".") {
		panic(fmt.Sprintf("sequential: invalid module name %q", name))
	}
	if s.index(name) >= 0 {
		panic(fmt.Sprintf("sequential: duplicate module name %q", name))
	}
	s.names = append(s.names, name)
	s.modules = append(s.modules, module)
	return s
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// ForwardCapture runs the full forward pass and also returns the output of
// the module called name, exactly as that module produced it.
//
// Returns ErrUnknownModule if no module has that name. Shape errors inside
// the pass panic, as Forward does.
func (s *Sequential[B]) ForwardCapture(input *tensor.Tensor[float32, B], name string) (
	output, captured *tensor.Tensor[float32, B], err error,
) {
	target := s.index(name)
	if target < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}

	output = input
	for i, module := range s.modules {
		output = module.Forward(output)
		if i == target {
			captured = output
		}
	}
	return output, captured, nil
}

// Conv returns the Conv2D registered under name.
func (s *Sequential[B]) Conv(name string) (*Conv2D[B], error) {
	m, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	conv, ok := m.(*Conv2D[B])
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T", ErrNotConv, name, m)
	}
	return conv, nil
}

// Get returns the module registered under name.
func (s *Sequential[B]) Get(name string) (Module[B], error) {
	i := s.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}
	return s.modules[i], nil
}

func (s *Sequential[B]) index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Parameters returns all parameters from all modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Names returns the module names in order.
func (s *Sequential[B]) Names() []string {
	return append([]string(nil), s.names...)
}

// StateDict returns a map of parameter names to raw tensors.
//
// Parameters are prefixed with their module name (e.g., "conv1.weight").
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		for name, raw := range module.StateDict() {
			stateDict[s.names[i]+"."+name] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary keyed like
// StateDict. Every module with parameters must find all of them.
func (s *Sequential[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, module := range s.modules {
		if len(module.Parameters()) == 0 {
			continue
		}

		prefix := s.names[i] + "."
		moduleStateDict := make(map[string]*tensor.RawTensor)
		for key, raw := range stateDict {
			if paramName, ok := strings.CutPrefix(key, prefix); ok {
				moduleStateDict[paramName] = raw
			}
		}

		if err := module.LoadStateDict(moduleStateDict); err != nil {
			return fmt.Errorf("failed to load module %s: %w", s.names[i], err)
		}
	}
	return nil
}

func (s *Sequential[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Sequential(\n")
	for i, module := range s.modules {
		fmt.Fprintf(&sb, "  (%s): %v\n", s.names[i], module)
	}
	sb.WriteString(")")
	return sb.String()
}
