package nn_test

import (
	"testing"

	"github.com/born-ml/convviz/internal/backend/cpu"
	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter(t *testing.T) {
	backend := cpu.New()

	data, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	require.NoError(t, err)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
}

func TestReLU_Idempotent(t *testing.T) {
	backend := cpu.New()
	relu := nn.NewReLU[*cpu.CPUBackend]()

	x, err := tensor.FromSlice([]float32{-3, -0.5, 0, 0.5, 3, -1}, tensor.Shape{1, 2, 3}, backend)
	require.NoError(t, err)

	once := relu.Forward(x)
	twice := relu.Forward(once)

	assert.Equal(t, []float32{0, 0, 0, 0.5, 3, 0}, once.Data())
	assert.Equal(t, once.Data(), twice.Data())
	assert.Empty(t, relu.Parameters())
}

func TestMaxPool2D_Halves(t *testing.T) {
	backend := cpu.New()
	pool := nn.NewMaxPool2D(2, 2, backend)

	out := pool.Forward(tensor.Zeros[float32](tensor.Shape{1, 1, 24, 24}, backend))
	assert.Equal(t, tensor.Shape{1, 1, 12, 12}, out.Shape())
	assert.Equal(t, [2]int{12, 12}, pool.ComputeOutputSize(24, 24))
	assert.Equal(t, "MaxPool2D(kernel_size=2, stride=2)", pool.String())
	assert.Panics(t, func() { nn.NewMaxPool2D(0, 2, backend) })
}

func TestFlatten(t *testing.T) {
	backend := cpu.New()
	out := nn.NewFlatten[*cpu.CPUBackend]().Forward(tensor.Zeros[float32](tensor.Shape{1, 50, 4, 4}, backend))
	assert.Equal(t, tensor.Shape{1, 800}, out.Shape())
}

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear(3, 2, backend)

	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 1})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	x, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)

	out := layer.Forward(x)
	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	assert.Equal(t, []float32{11, 25}, out.Data())
}

func TestLeNet_Forward(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)

	input := tensor.Zeros[float32](tensor.Shape{1, 1, 28, 28}, backend)
	out := model.Forward(input)
	assert.Equal(t, tensor.Shape{1, 10}, out.Shape())
	assert.Equal(t, 10, model.Len())
	assert.Len(t, model.Parameters(), 8)
}

func TestSequential_ForwardCapture(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	input := tensor.Zeros[float32](tensor.Shape{1, 1, 28, 28}, backend)

	out, conv1, err := model.ForwardCapture(input, "conv1")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 10}, out.Shape())
	assert.Equal(t, tensor.Shape{1, 20, 24, 24}, conv1.Shape())

	_, conv2, err := model.ForwardCapture(input, "conv2")
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 50, 8, 8}, conv2.Shape())

	_, _, err = model.ForwardCapture(input, "conv3")
	assert.ErrorIs(t, err, nn.ErrUnknownModule)
}

func TestSequential_Conv(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)

	conv, err := model.Conv("conv2")
	require.NoError(t, err)
	assert.Equal(t, 20, conv.InChannels())
	assert.Equal(t, 50, conv.OutChannels())

	_, err = model.Conv("pool1")
	assert.ErrorIs(t, err, nn.ErrNotConv)

	_, err = model.Conv("missing")
	assert.ErrorIs(t, err, nn.ErrUnknownModule)
}

func TestSequential_AddPanics(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential[*cpu.CPUBackend]().Add("relu", nn.NewReLU[*cpu.CPUBackend]())

	assert.Panics(t, func() { model.Add("relu", nn.NewReLU[*cpu.CPUBackend]()) })
	assert.Panics(t, func() { model.Add("a.b", nn.NewMaxPool2D(2, 2, backend)) })
	assert.Panics(t, func() { model.Add("", nn.NewFlatten[*cpu.CPUBackend]()) })
}

func TestSequential_StateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	src := nn.NewLeNet(backend)
	dst := nn.NewLeNet(backend)

	state := src.StateDict()
	assert.Len(t, state, 8)
	assert.Contains(t, state, "conv1.weight")
	assert.Contains(t, state, "fc2.bias")

	require.NoError(t, dst.LoadStateDict(state))

	srcConv, err := src.Conv("conv1")
	require.NoError(t, err)
	dstConv, err := dst.Conv("conv1")
	require.NoError(t, err)
	assert.Equal(t, srcConv.Weight().Tensor().Data(), dstConv.Weight().Tensor().Data())
}

func TestSequential_LoadStateDictErrors(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)

	state := model.StateDict()
	delete(state, "conv2.bias")
	err := model.LoadStateDict(state)
	assert.ErrorIs(t, err, nn.ErrStateDict)
	assert.Contains(t, err.Error(), "conv2")

	state = model.StateDict()
	wrong, err := tensor.NewRaw(tensor.Shape{20, 1, 3, 3}, tensor.Float32)
	require.NoError(t, err)
	state["conv1.weight"] = wrong
	assert.ErrorIs(t, model.LoadStateDict(state), nn.ErrStateDict)
}
