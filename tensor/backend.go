// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/convviz/internal/tensor"

// Backend defines the interface that compute backends implement. Backends
// perform the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go, im2col convolution on gonum BLAS
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := x.Add(x) // uses backend.Add
type Backend = tensor.Backend
