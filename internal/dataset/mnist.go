package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/born-ml/convviz/internal/tensor"
)

// MNIST file names.
const (
	trainImagesFile = "train-images-idx3-ubyte"
	trainLabelsFile = "train-labels-idx1-ubyte"
	testImagesFile  = "t10k-images-idx3-ubyte"
	testLabelsFile  = "t10k-labels-idx1-ubyte"
)

// InMemory is a Dataset over grayscale images held in memory.
// Pixels are scaled to [0, 1] and normalized when a sample is read.
type InMemory[B tensor.Backend] struct {
	images  *Images
	labels  []byte
	norm    Normalization
	backend B
}

// NewInMemory wraps images and labels. labels may be nil.
func NewInMemory[B tensor.Backend](images *Images, labels []byte, norm Normalization, backend B) (*InMemory[B], error) {
	if labels != nil && len(labels) != images.Count {
		return nil, fmt.Errorf("%w: %d images but %d labels", ErrFormat, images.Count, len(labels))
	}
	return &InMemory[B]{
		images:  images,
		labels:  labels,
		norm:    norm,
		backend: backend,
	}, nil
}

// LoadMNIST loads MNIST data from the official IDX files in dir.
//
// Expected files in dir:
//   - train-images-idx3-ubyte (or t10k-images-idx3-ubyte for test)
//   - train-labels-idx1-ubyte (or t10k-labels-idx1-ubyte for test)
//
// maxSamples limits how many samples are loaded (0 = all).
func LoadMNIST[B tensor.Backend](dir string, train bool, maxSamples int, norm Normalization, backend B) (*InMemory[B], error) {
	imageFile, labelFile := testImagesFile, testLabelsFile
	if train {
		imageFile, labelFile = trainImagesFile, trainLabelsFile
	}

	images, err := readFile(filepath.Join(dir, imageFile), func(f *os.File) (*Images, error) {
		return ReadImages(f, maxSamples)
	})
	if err != nil {
		return nil, err
	}
	labels, err := readFile(filepath.Join(dir, labelFile), func(f *os.File) ([]byte, error) {
		return ReadLabels(f, maxSamples)
	})
	if err != nil {
		return nil, err
	}

	return NewInMemory(images, labels, norm, backend)
}

func readFile[T any](path string, read func(*os.File) (T, error)) (T, error) {
	var zero T
	//nolint:gosec // G304: dataset path is user input by design
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// Len returns the number of samples.
func (d *InMemory[B]) Len() int {
	return d.images.Count
}

// Sample returns image i as a normalized [1, H, W] tensor and its label
// (-1 without labels).
func (d *InMemory[B]) Sample(i int) (*tensor.Tensor[float32, B], int, error) {
	if i < 0 || i >= d.images.Count {
		return nil, 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, d.images.Count)
	}

	pixels := d.images.Image(i)
	values := make([]float64, len(pixels))
	for j, p := range pixels {
		values[j] = float64(p) / 255
	}
	if err := d.norm.Normalize(values, 1); err != nil {
		return nil, 0, err
	}

	t := tensor.Zeros[float32](tensor.Shape{1, d.images.Rows, d.images.Cols}, d.backend)
	data := t.Data()
	for j, v := range values {
		data[j] = float32(v)
	}

	label := -1
	if d.labels != nil {
		label = int(d.labels[i])
	}
	return t, label, nil
}

// Synthetic draws n digit-like 28x28 images: one vertical and one slanted
// anti-aliased stroke at random positions. Used when no MNIST files are at
// hand.
func Synthetic(n int, rng *rand.Rand) (*Images, []byte) {
	const size = 28
	images := &Images{Count: n, Rows: size, Cols: size, Pixels: make([]byte, n*size*size)}
	labels := make([]byte, n)

	for i := 0; i < n; i++ {
		img := images.Image(i)
		x0 := 8 + rng.Float64()*12
		slope := rng.Float64()*1.2 - 0.6
		for y := 4; y < size-4; y++ {
			stroke(img, size, x0+slope*float64(y-4), float64(y))
		}
		// Top bar, as in a 7.
		top := 5 + rng.Float64()*3
		for x := 6; x < size-6; x++ {
			stroke(img, size, float64(x), top)
		}
		labels[i] = 7
	}
	return images, labels
}

// stroke paints a soft disc of radius 1.5 centered at (cx, cy).
func stroke(img []byte, size int, cx, cy float64) {
	for y := int(cy) - 2; y <= int(cy)+2; y++ {
		for x := int(cx) - 2; x <= int(cx)+2; x++ {
			if x < 0 || y < 0 || x >= size || y >= size {
				continue
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			v := 255 * math.Max(0, 1-d/2.5)
			if v > float64(img[y*size+x]) {
				img[y*size+x] = byte(v)
			}
		}
	}
}
