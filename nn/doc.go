// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the convolutional network layers convviz inspects.
//
// # Overview
//
//   - Layers: Conv2D, MaxPool2D, Linear
//   - Activations: ReLU, Flatten
//   - Containers: Sequential with named layers
//   - Models: NewLeNet
//   - Initialization: Xavier, Zeros
//
// # Basic Usage
//
//	backend := cpu.New()
//	model := nn.NewSequential[*cpu.Backend]().
//	    Add("conv1", nn.NewConv2D(1, 20, 5, 5, 1, 0, true, backend)).
//	    Add("relu1", nn.NewReLU[*cpu.Backend]()).
//	    Add("pool1", nn.NewMaxPool2D(2, 2, backend))
//
//	out, conv1, err := model.ForwardCapture(x, "conv1")
//
// # Weights
//
// StateDict keys are "<layer>.<param>", e.g. "conv1.weight". Load them
// from a safetensors file with LoadStateDict.
package nn
