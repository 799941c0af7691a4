package dataset_test

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/convviz/internal/backend/cpu"
	"github.com/born-ml/convviz/internal/dataset"
	"github.com/born-ml/convviz/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idxImages(t *testing.T, count, rows, cols int, pixels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{2051, uint32(count), uint32(rows), uint32(cols)}))
	buf.Write(pixels)
	return buf.Bytes()
}

func idxLabels(t *testing.T, labels []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []uint32{2049, uint32(len(labels))}))
	buf.Write(labels)
	return buf.Bytes()
}

func TestReadImages(t *testing.T) {
	pixels := []byte{0, 255, 128, 64, 1, 2, 3, 4}
	images, err := dataset.ReadImages(bytes.NewReader(idxImages(t, 2, 2, 2, pixels)), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, images.Count)
	assert.Equal(t, 2, images.Rows)
	assert.Equal(t, []byte{1, 2, 3, 4}, images.Image(1))

	limited, err := dataset.ReadImages(bytes.NewReader(idxImages(t, 2, 2, 2, pixels)), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Count)
}

func TestReadImages_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"label magic", idxLabels(t, []byte{1})},
		{"truncated pixels", idxImages(t, 2, 2, 2, []byte{1, 2, 3})},
		{"zero rows", idxImages(t, 1, 0, 2, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.ReadImages(bytes.NewReader(tt.data), 0)
			assert.ErrorIs(t, err, dataset.ErrFormat)
		})
	}
}

func TestReadLabels(t *testing.T) {
	labels, err := dataset.ReadLabels(bytes.NewReader(idxLabels(t, []byte{5, 0, 4})), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 0, 4}, labels)

	_, err = dataset.ReadLabels(bytes.NewReader(idxImages(t, 1, 1, 1, []byte{0})), 0)
	assert.ErrorIs(t, err, dataset.ErrFormat)
}

func TestLoadMNIST(t *testing.T) {
	dir := t.TempDir()
	pixels := make([]byte, 3*28*28)
	pixels[28*28] = 255 // first pixel of the second image

	require.NoError(t, os.WriteFile(filepath.Join(dir, "t10k-images-idx3-ubyte"), idxImages(t, 3, 28, 28, pixels), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t10k-labels-idx1-ubyte"), idxLabels(t, []byte{7, 2, 1}), 0o600))

	ds, err := dataset.LoadMNIST(dir, false, 0, dataset.Identity, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	img, label, err := ds.Sample(1)
	require.NoError(t, err)
	assert.Equal(t, 2, label)
	assert.Equal(t, tensor.Shape{1, 28, 28}, img.Shape())
	assert.Equal(t, float32(1), img.At(0, 0, 0))
	assert.Equal(t, float32(0), img.At(0, 0, 1))

	_, _, err = ds.Sample(3)
	assert.ErrorIs(t, err, dataset.ErrIndex)
	_, _, err = ds.Sample(-1)
	assert.ErrorIs(t, err, dataset.ErrIndex)

	_, err = dataset.LoadMNIST(dir, true, 0, dataset.Identity, cpu.New())
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	values := []float64{0.485, 1, 0.456, 0, 0.406, 0.5}
	require.NoError(t, dataset.ImageNet.Normalize(values, 3))

	assert.InDelta(t, 0, values[0], 1e-12)
	assert.InDelta(t, (1-0.485)/0.229, values[1], 1e-12)
	assert.InDelta(t, 0, values[2], 1e-12)
	assert.InDelta(t, -0.456/0.224, values[3], 1e-12)
	assert.InDelta(t, (0.5-0.406)/0.225, values[5], 1e-12)

	assert.Error(t, dataset.ImageNet.Normalize(values, 4))
	assert.Error(t, dataset.Normalization{Mean: []float64{0}, Std: []float64{0}}.Normalize(values, 1))
	assert.NoError(t, dataset.Identity.Normalize(values, 1))
}

func TestInMemory_LabelMismatch(t *testing.T) {
	images, _ := dataset.Synthetic(2, rand.New(rand.NewSource(1)))
	_, err := dataset.NewInMemory(images, []byte{1}, dataset.MNIST, cpu.New())
	assert.ErrorIs(t, err, dataset.ErrFormat)
}

func TestSynthetic(t *testing.T) {
	images, labels := dataset.Synthetic(4, rand.New(rand.NewSource(42)))
	require.Equal(t, 4, images.Count)
	require.Len(t, labels, 4)

	for i := 0; i < images.Count; i++ {
		var lit int
		for _, p := range images.Image(i) {
			if p > 0 {
				lit++
			}
		}
		assert.Greater(t, lit, 20, "image %d should contain strokes", i)
	}

	ds, err := dataset.NewInMemory(images, labels, dataset.MNIST, cpu.New())
	require.NoError(t, err)
	img, label, err := ds.Sample(0)
	require.NoError(t, err)
	assert.Equal(t, 7, label)
	// Background pixels map to -mean/std.
	assert.InDelta(t, -0.1307/0.3081, img.At(0, 0, 0), 1e-6)
}
