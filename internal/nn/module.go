// Package nn implements the neural network modules used by convviz.
//
// This package provides building blocks for constructing classifiers:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight tensors
//   - Conv2D, MaxPool2D, ReLU, Flatten, Linear
//   - Sequential: Named container for stacking layers, with explicit
//     capture of any intermediate output
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
// Modules are inference-only; there is no gradient tracking.
package nn

import (
	"errors"

	"github.com/born-ml/convviz/internal/tensor"
)

var (
	// ErrUnknownModule is returned when a Sequential has no module with the
	// requested name.
	ErrUnknownModule = errors.New("nn: unknown module")

	// ErrNotConv is returned when a named module exists but is not a Conv2D.
	ErrNotConv = errors.New("nn: module is not a Conv2D")

	// ErrStateDict is returned when a state dict is missing a parameter or
	// holds one with the wrong shape or dtype.
	ErrStateDict = errors.New("nn: state dict mismatch")
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[B]().
//	    Add("conv1", nn.NewConv2D(1, 20, 5, 5, 1, 0, true, backend)).
//	    Add("relu1", nn.NewReLU[B]())
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// Panics if the input has the wrong shape for this module.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all weight parameters of this module.
	// Returns an empty slice for modules without weights.
	Parameters() []*Parameter[B]

	// StateDict returns parameter names mapped to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies weights from a state dict into the module.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
