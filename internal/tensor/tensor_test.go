package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/convviz/internal/backend/cpu"
	"github.com/born-ml/convviz/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		size  int
		str   string
	}{
		{tensor.Float32, 4, "float32"},
		{tensor.Float64, 8, "float64"},
		{tensor.Uint8, 1, "uint8"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size())
		assert.Equal(t, tt.str, tt.dtype.String())
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{2352, 784, 28, 1}, tensor.Shape{2, 3, 28, 28}.ComputeStrides())
	assert.Equal(t, 28, tensor.Shape{1, 28, 28}.Last())
	assert.Equal(t, 0, tensor.Shape{}.Last())
	assert.Error(t, tensor.Shape{3, 0}.Validate())
}

func TestBroadcastShapes(t *testing.T) {
	out, needs, err := tensor.BroadcastShapes(tensor.Shape{1, 20, 24, 24}, tensor.Shape{1, 20, 1, 1})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{1, 20, 24, 24}, out)

	out, needs, err = tensor.BroadcastShapes(tensor.Shape{1, 500}, tensor.Shape{500})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{1, 500}, out)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 4}, tensor.Shape{3, 5})
	assert.Error(t, err)
}

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(1, 2))

	x.Set(9, 0, 1)
	assert.Equal(t, []float32{1, 9, 3, 4, 5, 6}, x.Data())

	_, err = tensor.FromSlice([]float32{1, 2}, tensor.Shape{3}, backend)
	assert.Error(t, err)
}

func TestDetach_SharesData(t *testing.T) {
	backend := cpu.New()
	x := tensor.Full[float32](tensor.Shape{2, 2}, 1, backend)

	d := x.Detach()
	d.Set(5, 0, 0)
	assert.Equal(t, float32(5), x.At(0, 0))

	c := x.Clone()
	c.Set(7, 0, 0)
	assert.Equal(t, float32(5), x.At(0, 0))
}

func TestSelect(t *testing.T) {
	backend := cpu.New()
	data := make([]float32, 3*2*2)
	for i := range data {
		data[i] = float32(i)
	}
	x, err := tensor.FromSlice(data, tensor.Shape{3, 2, 2}, backend)
	require.NoError(t, err)

	s := x.Select(1)
	assert.Equal(t, tensor.Shape{2, 2}, s.Shape())
	assert.Equal(t, []float32{4, 5, 6, 7}, s.Data())

	assert.Panics(t, func() { x.Select(3) })
}

func TestRawView(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{4, 4}, tensor.Float64)
	require.NoError(t, err)

	v, err := raw.View(tensor.Shape{16, 1})
	require.NoError(t, err)
	v.AsFloat64()[5] = 2.5
	assert.Equal(t, 2.5, raw.AsFloat64()[5])

	_, err = raw.View(tensor.Shape{3, 5})
	assert.Error(t, err)
}

func TestFloat64s(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]uint8{0, 128, 255}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 128, 255}, x.Raw().Float64s())
}

func TestMaybe(t *testing.T) {
	err := tensor.Maybe(func() {})
	assert.NoError(t, err)

	err = tensor.Maybe(func() { panic("conv2d: input channels 3 != kernel channels 1") })
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrOp))
	assert.Contains(t, err.Error(), "input channels")

	sentinel := errors.New("boom")
	err = tensor.Maybe(func() { panic(sentinel) })
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, tensor.ErrOp)

	assert.Panics(t, func() {
		_ = tensor.Maybe(func() {
			var s []int
			_ = s[3]
		})
	})
}
