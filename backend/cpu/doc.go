// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// # Overview
//
//   - Pure Go implementation (no CGO)
//   - Im2col convolution with GEMM on gonum BLAS
//   - Float32 and Float64 support
//   - Convolution and pooling split across goroutines
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convviz/backend/cpu"
//	    "github.com/born-ml/convviz/nn"
//	    "github.com/born-ml/convviz/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    model := nn.NewLeNet(backend)
//	    out := model.Forward(tensor.Zeros[float32](tensor.Shape{1, 1, 28, 28}, backend))
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates its
// own output and does not share mutable state.
package cpu
