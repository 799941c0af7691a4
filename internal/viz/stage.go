package viz

import (
	"fmt"

	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/internal/tensor"
)

// LayerSource yields a convolution and its raw output for an input image.
type LayerSource[B tensor.Backend] interface {
	// Capture returns the conv layer and its [1, C_out, H, W] output for
	// the [C, H, W] input.
	Capture(input *tensor.Tensor[float32, B]) (*nn.Conv2D[B], *tensor.Tensor[float32, B], error)
}

// ModelLayer captures the output of a named Conv2D while the whole model
// runs forward on a batch of one.
type ModelLayer[B tensor.Backend] struct {
	Model *nn.Sequential[B]
	Name  string
}

// Capture implements LayerSource.
func (m ModelLayer[B]) Capture(input *tensor.Tensor[float32, B]) (*nn.Conv2D[B], *tensor.Tensor[float32, B], error) {
	conv, err := m.Model.Conv(m.Name)
	if err != nil {
		return nil, nil, err
	}

	var (
		captured   *tensor.Tensor[float32, B]
		captureErr error
	)
	err = tensor.Maybe(func() {
		_, captured, captureErr = m.Model.ForwardCapture(input.Unsqueeze(0), m.Name)
	})
	if err != nil {
		return nil, nil, err
	}
	if captureErr != nil {
		return nil, nil, captureErr
	}
	return conv, captured, nil
}

// FreshConv applies a standalone Conv2D to a single-channel image viewed
// as [1, 1, H, W].
type FreshConv[B tensor.Backend] struct {
	Conv *nn.Conv2D[B]
}

// Capture implements LayerSource.
func (f FreshConv[B]) Capture(input *tensor.Tensor[float32, B]) (*nn.Conv2D[B], *tensor.Tensor[float32, B], error) {
	shape := input.Shape()
	if len(shape) < 2 {
		return nil, nil, fmt.Errorf("%w: expected an image, got %v", ErrRank, shape)
	}

	var out *tensor.Tensor[float32, B]
	err := tensor.Maybe(func() {
		out = f.Conv.Forward(input.Reshape(1, 1, shape[len(shape)-2], shape[len(shape)-1]))
	})
	if err != nil {
		return nil, nil, err
	}
	return f.Conv, out, nil
}

// Stage holds the tensors one visualized layer produces. All but Input
// are [1, H, W].
type Stage[B tensor.Backend] struct {
	Input      *tensor.Tensor[float32, B] // what the first panel shows
	Kernel     *tensor.Tensor[float32, B] // [1, K_h, K_w]
	FeatureMap *tensor.Tensor[float32, B]
	Rectified  *tensor.Tensor[float32, B]
	Pooled     *tensor.Tensor[float32, B]

	Conv *nn.Conv2D[B]
}

// Extract runs input through src and keeps output channel featureMap, the
// kernel weight[featureMap][prevFeatureMap], the rectified map and its
// 2x2 max-pooled version. display is recorded as the stage input.
func Extract[B tensor.Backend](
	src LayerSource[B],
	input, display *tensor.Tensor[float32, B],
	featureMap, prevFeatureMap int,
) (*Stage[B], error) {
	conv, out, err := src.Capture(input)
	if err != nil {
		return nil, err
	}

	if featureMap < 0 || featureMap >= conv.OutChannels() {
		return nil, fmt.Errorf("%w: feature map %d not in [0, %d)", ErrIndex, featureMap, conv.OutChannels())
	}
	if prevFeatureMap < 0 || prevFeatureMap >= conv.InChannels() {
		return nil, fmt.Errorf("%w: previous feature map %d not in [0, %d)", ErrIndex, prevFeatureMap, conv.InChannels())
	}

	st := &Stage[B]{Input: display, Conv: conv}
	err = tensor.Maybe(func() {
		backend := out.Backend()

		st.FeatureMap = out.Select(0).Select(featureMap).Unsqueeze(0)
		st.Kernel = conv.Kernel(featureMap, prevFeatureMap).Unsqueeze(0)
		st.Rectified = nn.NewReLU[B]().Forward(st.FeatureMap)
		st.Pooled = nn.NewMaxPool2D(2, 2, backend).Forward(st.Rectified.Unsqueeze(0)).Squeeze(0)
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}
