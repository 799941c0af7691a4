// Package dataset provides the image samples the visualizer feeds to a
// model: an MNIST IDX reader, an in-memory dataset and the per-channel
// normalization applied before inference.
package dataset

import (
	"errors"

	"github.com/born-ml/convviz/internal/tensor"
)

var (
	// ErrIndex is returned when a sample index is out of range.
	ErrIndex = errors.New("dataset: index out of range")

	// ErrFormat is returned for malformed IDX files.
	ErrFormat = errors.New("dataset: invalid idx data")
)

// Dataset is an indexable collection of labeled images.
type Dataset[B tensor.Backend] interface {
	// Len returns the number of samples.
	Len() int

	// Sample returns the normalized image [C, H, W] and label of sample i.
	Sample(i int) (*tensor.Tensor[float32, B], int, error)
}
