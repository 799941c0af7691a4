package tensor

// Backend defines the interface that compute backends implement.
// Backends perform the actual computation for tensor operations and panic
// on invalid arguments (shape mismatches, bad strides).
//
// Implementations:
//   - CPU: pure Go (internal/backend/cpu)
type Backend interface {
	// Add performs element-wise addition with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Convolutional operations
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	// ReLU replaces negative elements with zero.
	ReLU(x *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor // add dimension of size 1
	Squeeze(x *RawTensor, dim int) *RawTensor   // remove dimension of size 1

	// Metadata
	Name() string
}
