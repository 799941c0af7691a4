// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/convviz/backend/cpu"
	"github.com/born-ml/convviz/nn"
	"github.com/born-ml/convviz/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that the public layers implement Module.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
		input  tensor.Shape
		params int
	}{
		{"Conv2D", nn.NewConv2D(1, 4, 3, 3, 1, 0, true, backend), tensor.Shape{1, 1, 8, 8}, 2},
		{"MaxPool2D", nn.NewMaxPool2D(2, 2, backend), tensor.Shape{1, 1, 8, 8}, 0},
		{"ReLU", nn.NewReLU[*cpu.Backend](), tensor.Shape{2, 3}, 0},
		{"Linear", nn.NewLinear(10, 5, backend), tensor.Shape{2, 10}, 2},
		{"LeNet", nn.NewLeNet(backend), tensor.Shape{1, 1, 28, 28}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.module.Forward(tensor.Zeros[float32](tt.input, backend))
			assert.NotNil(t, out)
			assert.Len(t, tt.module.Parameters(), tt.params)
			assert.Len(t, tt.module.StateDict(), tt.params)
		})
	}
}

func TestSequentialLookup(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[*cpu.Backend]().
		Add("conv1", nn.NewConv2D(1, 2, 3, 3, 1, 0, false, backend)).
		Add("relu1", nn.NewReLU[*cpu.Backend]())

	conv, err := model.Conv("conv1")
	require.NoError(t, err)
	assert.Equal(t, 2, conv.OutChannels())

	_, err = model.Conv("relu1")
	assert.ErrorIs(t, err, nn.ErrNotConv)
	_, err = model.Conv("conv2")
	assert.ErrorIs(t, err, nn.ErrUnknownModule)
}
