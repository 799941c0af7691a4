// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the generic tensors convviz computes with.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convviz/backend/cpu"
//	    "github.com/born-ml/convviz/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{1, 28, 28}, backend)
//	    batch := x.Unsqueeze(0) // [1, 1, 28, 28]
//	}
//
// # Supported Data Types
//
//   - float32, float64 (all operations)
//   - uint8 (storage and shape operations, useful for raw images)
//
// # Errors
//
// Operations panic on invalid arguments such as mismatched shapes. Wrap
// calls in Maybe to receive an error wrapping ErrOp instead.
package tensor
