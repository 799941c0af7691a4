package tensor

import "fmt"

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
//
// Example:
//
//	fm := features.Select(0)          // [24, 24]
//	view := fm.Reshape(1, 24, 24)      // [1, 24, 24]
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	result := t.backend.Reshape(t.raw, Shape(newShape))
	return New[T, B](result, t.backend)
}

// Transpose permutes the tensor's dimensions.
//
// If axes is empty, reverses all dimensions.
//
// Example:
//
//	chw := tensor.Zeros[float32](Shape{3, 32, 32}, backend)
//	hwc := chw.Transpose(1, 2, 0) // [32, 32, 3]
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New[T, B](result, t.backend)
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing.
//
// Example:
//
//	x := tensor.Zeros[float32](Shape{1, 28, 28}, backend)
//	y := x.Unsqueeze(0) // [1, 1, 28, 28]
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	result := t.backend.Unsqueeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Panics if the dimension size is not 1.
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	result := t.backend.Squeeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Select returns a copy of the sub-tensor at index along the first
// dimension. The result has one dimension fewer.
//
// Example:
//
//	features := tensor.Zeros[float32](Shape{20, 24, 24}, backend)
//	fm := features.Select(3) // [24, 24]
func (t *Tensor[T, B]) Select(index int) *Tensor[T, B] {
	shape := t.Shape()
	if len(shape) == 0 {
		panic("select: scalar tensor has no dimension to index")
	}
	if index < 0 || index >= shape[0] {
		panic(fmt.Sprintf("select: index %d out of range for dimension of size %d", index, shape[0]))
	}

	subShape := shape[1:].Clone()
	if len(subShape) == 0 {
		subShape = Shape{1}
	}
	raw, err := NewRaw(subShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("select: %v", err))
	}

	size := raw.ByteSize()
	copy(raw.Data(), t.raw.Data()[index*size:(index+1)*size])
	return New[T, B](raw, t.backend)
}
