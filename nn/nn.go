// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/tensor"
)

// Errors returned by Sequential lookups and state dict loading.
var (
	ErrUnknownModule = nn.ErrUnknownModule
	ErrNotConv       = nn.ErrNotConv
	ErrStateDict     = nn.ErrStateDict
)

// Module is the interface all layers implement: Forward, Parameters,
// StateDict and LoadStateDict.
type Module[B tensor.Backend] = nn.Module[B]

// Layers

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer with Xavier-initialized
// weights.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(1, 20, 5, 5, 1, 0, true, backend) // in=1, out=20, kernel=5x5, stride=1, padding=0
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Example:
//
//	pool := nn.NewMaxPool2D(2, 2, backend) // halves height and width
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernelSize, stride, backend)
}

// Linear represents a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Activations

// ReLU is the rectified linear unit, max(0, x).
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Flatten reshapes [N, ...] to [N, prod(...)].
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Containers

// Sequential chains named modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates an empty Sequential. Add layers with Add.
func NewSequential[B tensor.Backend]() *Sequential[B] {
	return nn.NewSequential[B]()
}

// NewLeNet builds the LeNet variant convviz visualizes: conv1 (1->20, 5x5),
// conv2 (20->50, 5x5), each followed by ReLU and 2x2 max pooling, then
// fc1 (800->500) and fc2 (500->10).
func NewLeNet[B tensor.Backend](backend B) *Sequential[B] {
	return nn.NewLeNet(backend)
}

// Initialization

// Xavier returns a tensor drawn from the Xavier/Glorot uniform
// distribution for the given fan-in and fan-out.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros returns a zero tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}
