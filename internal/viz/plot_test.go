package viz_test

import (
	"bytes"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/born-ml/convviz/internal/backend/cpu"
	"github.com/born-ml/convviz/internal/dataset"
	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/internal/tensor"
	"github.com/born-ml/convviz/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticDataset(t *testing.T, backend *cpu.CPUBackend) *dataset.InMemory[*cpu.CPUBackend] {
	t.Helper()
	images, labels := dataset.Synthetic(3, rand.New(rand.NewSource(7)))
	ds, err := dataset.NewInMemory(images, labels, dataset.MNIST, backend)
	require.NoError(t, err)
	return ds
}

func TestExtract_ModelLayer(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	sample, _, err := syntheticDataset(t, backend).Sample(0)
	require.NoError(t, err)

	st, err := viz.Extract[*cpu.CPUBackend](viz.ModelLayer[*cpu.CPUBackend]{Model: model, Name: "conv1"}, sample, sample, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 28, 28}, st.Input.Shape())
	assert.Equal(t, tensor.Shape{1, 5, 5}, st.Kernel.Shape())
	assert.Equal(t, tensor.Shape{1, 24, 24}, st.FeatureMap.Shape())
	assert.Equal(t, tensor.Shape{1, 24, 24}, st.Rectified.Shape())
	assert.Equal(t, tensor.Shape{1, 12, 12}, st.Pooled.Shape())

	for i, v := range st.Rectified.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Equal(t, max(st.FeatureMap.Data()[i], 0), v)
	}

	// Channel 3 of the full conv1 output.
	_, conv1Out, err := model.ForwardCapture(sample.Unsqueeze(0), "conv1")
	require.NoError(t, err)
	assert.Equal(t, conv1Out.Select(0).Select(3).Data(), st.FeatureMap.Data())

	conv1, err := model.Conv("conv1")
	require.NoError(t, err)
	assert.Equal(t, conv1.Kernel(3, 0).Data(), st.Kernel.Data())

	// Pooling a second time keeps halving.
	twice := nn.NewMaxPool2D(2, 2, backend).Forward(st.Pooled.Unsqueeze(0))
	assert.Equal(t, tensor.Shape{1, 1, 6, 6}, twice.Shape())
}

func TestExtract_Errors(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	sample, _, err := syntheticDataset(t, backend).Sample(0)
	require.NoError(t, err)

	src := viz.ModelLayer[*cpu.CPUBackend]{Model: model, Name: "conv2"}

	_, err = viz.Extract[*cpu.CPUBackend](src, sample, sample, 50, 0)
	assert.ErrorIs(t, err, viz.ErrIndex)
	_, err = viz.Extract[*cpu.CPUBackend](src, sample, sample, 0, 20)
	assert.ErrorIs(t, err, viz.ErrIndex)
	_, err = viz.Extract[*cpu.CPUBackend](src, sample, sample, -1, 0)
	assert.ErrorIs(t, err, viz.ErrIndex)

	_, err = viz.Extract[*cpu.CPUBackend](viz.ModelLayer[*cpu.CPUBackend]{Model: model, Name: "conv9"}, sample, sample, 0, 0)
	assert.ErrorIs(t, err, nn.ErrUnknownModule)

	_, err = viz.Extract[*cpu.CPUBackend](viz.ModelLayer[*cpu.CPUBackend]{Model: model, Name: "fc1"}, sample, sample, 0, 0)
	assert.ErrorIs(t, err, nn.ErrNotConv)

	// A 3-channel image cannot feed a 1-channel model; the backend panic
	// comes back as an error.
	rgb := tensor.Zeros[float32](tensor.Shape{3, 28, 28}, backend)
	_, err = viz.Extract[*cpu.CPUBackend](viz.ModelLayer[*cpu.CPUBackend]{Model: model, Name: "conv1"}, rgb, rgb, 0, 0)
	assert.ErrorIs(t, err, tensor.ErrOp)
}

func TestExtract_FreshConvChain(t *testing.T) {
	backend := cpu.New()
	conv1 := nn.NewConv2D(1, 20, 5, 5, 1, 0, true, backend)
	conv2 := nn.NewConv2D(1, 50, 5, 5, 1, 0, true, backend)
	input := tensor.Full[float32](tensor.Shape{1, 28, 28}, 0.5, backend)

	st1, err := viz.Extract[*cpu.CPUBackend](viz.FreshConv[*cpu.CPUBackend]{Conv: conv1}, input, input, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 12, 12}, st1.Pooled.Shape())

	st2, err := viz.Extract[*cpu.CPUBackend](viz.FreshConv[*cpu.CPUBackend]{Conv: conv2}, st1.Pooled, st1.Pooled, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 8, 8}, st2.FeatureMap.Shape())
	assert.Equal(t, tensor.Shape{1, 4, 4}, st2.Pooled.Shape())
	assert.Equal(t, "4x4x50", viz.FlattenLabel(st2.Pooled.Shape()[1], st2.Pooled.Shape()[2], conv2.OutChannels()))
}

func smallConfig() viz.Config {
	cfg := viz.DefaultConfig()
	cfg.FigureSize = 3 * vg.Inch
	return cfg
}

func panelTitles(f *viz.Figure) []string {
	var titles []string
	for _, p := range f.Panels() {
		titles = append(titles, p.Title)
	}
	return titles
}

func TestPlotImageConv(t *testing.T) {
	backend := cpu.New()

	var shown []string
	cfg := smallConfig()
	cfg.Show = func(f *viz.Figure) error {
		shown = append(shown, f.Title())
		return nil
	}

	images, _ := dataset.Synthetic(1, rand.New(rand.NewSource(1)))
	ds, err := dataset.NewInMemory(images, nil, dataset.Identity, backend)
	require.NoError(t, err)
	input, label, err := ds.Sample(0)
	require.NoError(t, err)
	assert.Equal(t, -1, label)

	figs, err := viz.New(backend, cfg).PlotImageConv(input)
	require.NoError(t, err)
	require.Len(t, figs, 2)
	assert.Equal(t, []string{"première convolution", "deuxième convolution"}, shown)

	assert.Equal(t, []string{
		"image original", "kernel x20", "carte de caractéristique x20", "après ReLu x20", "après MaxPooling x20",
	}, panelTitles(figs[0]))

	second := figs[1].Panels()
	require.Len(t, second, 6)
	flat := second[0]
	assert.Equal(t, "Flattening x1", flat.Title)
	assert.Equal(t, "1", flat.XLabel)
	assert.Equal(t, "4x4x50", flat.YLabel)
	assert.Equal(t, 16, flat.Image.Bounds().Dy())
	assert.Equal(t, 1, flat.Image.Bounds().Dx())

	assert.Equal(t, "image après première convolution x20", second[1].Title)
	assert.Equal(t, "12", second[1].XLabel)
	assert.Equal(t, "8", second[3].YLabel)
	assert.Equal(t, "4", second[5].XLabel)

	// Four glyphs, the flattening arrow and the suptitle.
	assert.Len(t, figs[1].Labels(), 6)
}

func TestPlotModel(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	ds := syntheticDataset(t, backend)

	var shown int
	cfg := smallConfig()
	cfg.Show = func(*viz.Figure) error { shown++; return nil }

	figs, err := viz.New(backend, cfg).PlotModel(ds, model, 2, 4, 7)
	require.NoError(t, err)
	require.Len(t, figs, 2)
	assert.Equal(t, 2, shown)

	assert.Equal(t, "first convolution", figs[0].Title())
	assert.Equal(t, []string{
		"original image", "kernel x20", "feature map x20", "after ReLu x20", "after MaxPooling x20",
	}, panelTitles(figs[0]))
	first := figs[0].Panels()
	assert.Equal(t, "28", first[0].XLabel)
	assert.Equal(t, "5", first[1].YLabel)
	assert.Equal(t, "24", first[2].XLabel)
	assert.Equal(t, "12", first[4].XLabel)

	assert.Equal(t, "second convolution", figs[1].Title())
	second := figs[1].Panels()
	require.Len(t, second, 6)
	assert.Equal(t, "4x4x50", second[0].YLabel)
	assert.Equal(t, "image after first convolution x20", second[1].Title)
	assert.Equal(t, "12", second[1].XLabel)
	assert.Equal(t, "kernel x50", second[2].Title)
	assert.Equal(t, "8", second[3].XLabel)
	assert.Equal(t, "4", second[5].YLabel)
}

func TestPlotModel_Errors(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	ds := syntheticDataset(t, backend)
	v := viz.New(backend, smallConfig())

	_, err := v.PlotModel(ds, model, 3, 0, 0)
	assert.ErrorIs(t, err, dataset.ErrIndex)

	_, err = v.PlotModel(ds, model, 0, 20, 0)
	assert.ErrorIs(t, err, viz.ErrIndex)

	_, err = v.PlotModel(ds, model, 0, 0, 50)
	assert.ErrorIs(t, err, viz.ErrIndex)

	cfg := smallConfig()
	cfg.Layers = [2]string{"conv1", "pool2"}
	_, err = viz.New(backend, cfg).PlotModel(ds, model, 0, 0, 0)
	assert.ErrorIs(t, err, nn.ErrNotConv)

	var calls int
	cfg = smallConfig()
	cfg.Show = func(*viz.Figure) error { calls++; return assert.AnError }
	figs, err := viz.New(backend, cfg).PlotModel(ds, model, 0, 0, 0)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, figs, 1)
	assert.Equal(t, 1, calls, "a failing show stops before the second layer")
}

func TestPlotModel_SecondLayerErrorKeepsFirstFigure(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	ds := syntheticDataset(t, backend)

	var shown []string
	cfg := smallConfig()
	cfg.Show = func(f *viz.Figure) error {
		shown = append(shown, f.Title())
		return nil
	}

	figs, err := viz.New(backend, cfg).PlotModel(ds, model, 0, 0, 50)
	assert.ErrorIs(t, err, viz.ErrIndex)
	assert.Equal(t, []string{"first convolution"}, shown)
	require.Len(t, figs, 1)
	assert.Equal(t, "first convolution", figs[0].Title())
}

func TestPlotModel_CustomTitlesAndColormap(t *testing.T) {
	backend := cpu.New()
	model := nn.NewLeNet(backend)
	ds := syntheticDataset(t, backend)

	titles := viz.FrenchTitles(20, 50)
	cfg := smallConfig()
	cfg.Titles = &titles
	cfg.Colormap = viz.Viridis

	figs, err := viz.New(backend, cfg).PlotModel(ds, model, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "première convolution", figs[0].Title())
	assert.Equal(t, "image original", figs[0].Panels()[0].Title)

	_, isArray := figs[0].Panels()[0].Image.(*viz.Array)
	assert.False(t, isArray, "colormapped panels are RGBA images")
}

func TestFigure_Render(t *testing.T) {
	backend := cpu.New()
	figs, err := viz.New(backend, smallConfig()).PlotImageConv(tensor.Full[float32](tensor.Shape{1, 28, 28}, 0.3, backend))
	require.NoError(t, err)

	w, h := figs[0].Size()
	assert.Greater(t, float64(w), float64(h), "first-layer panels run past x = 1")

	pngData, err := figs[0].Render("png")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())

	svgData, err := figs[1].Render("svg")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svgData), "<svg"))
	assert.True(t, strings.Contains(string(svgData), "Flattening x1"))

	_, err = figs[0].Render("eps")
	assert.ErrorIs(t, err, viz.ErrFormat)
}
