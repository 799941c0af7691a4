package viz

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convviz/internal/tensor"
)

// Normalizer turns a normalized channel-first tensor back into a displayable
// channel-last array: out[c] = Std[c]*in[c] + Mean[c], clipped to [0, 1].
type Normalizer struct {
	Mean [3]float64
	Std  [3]float64
	Gray GrayMode
}

// DefaultNormalizer uses the ImageNet statistics.
func DefaultNormalizer() Normalizer {
	return Normalizer{
		Mean: [3]float64{0.485, 0.456, 0.406},
		Std:  [3]float64{0.229, 0.224, 0.225},
		Gray: GrayPassthrough,
	}
}

// ToDisplay converts a [C,H,W] or [1,C,H,W] tensor into an H x W x C array
// with values in [0, 1]. The tensor itself is not modified.
func ToDisplay[B tensor.Backend](n Normalizer, t *tensor.Tensor[float32, B]) (*Array, error) {
	shape := t.Shape()
	switch {
	case len(shape) == 3:
	case len(shape) == 4 && shape[0] == 1:
	default:
		return nil, fmt.Errorf("%w: expected [C,H,W] or [1,C,H,W], got %v", ErrRank, shape)
	}

	channels := shape[len(shape)-3]
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}

	var hwc *tensor.Tensor[float32, B]
	err := tensor.Maybe(func() {
		x := t.Detach()
		if len(shape) == 4 {
			x = x.Squeeze(0)
		}
		hwc = x.Transpose(1, 2, 0)
	})
	if err != nil {
		return nil, err
	}

	out := &Array{H: shape[len(shape)-2], W: shape[len(shape)-1], C: channels, Pix: hwc.Raw().Float64s()}
	if channels == 1 {
		if n.Gray == GrayPassthrough {
			clipAll(out.Pix)
			return out, nil
		}
		out = broadcast3(out)
	}

	n.denormalize(out)
	return out, nil
}

// denormalize applies std*x+mean per column of the (H*W) x 3 pixel matrix
// and clips the result.
func (n Normalizer) denormalize(a *Array) {
	m := mat.NewDense(a.H*a.W, a.C, a.Pix)
	m.Apply(func(_, c int, v float64) float64 {
		return clip01(n.Std[c]*v + n.Mean[c])
	}, m)
}

// broadcast3 repeats a single channel three times.
func broadcast3(a *Array) *Array {
	out := NewArray(a.H, a.W, 3)
	for i, v := range a.Pix {
		out.Pix[3*i] = v
		out.Pix[3*i+1] = v
		out.Pix[3*i+2] = v
	}
	return out
}

func clipAll(pix []float64) {
	for i, v := range pix {
		pix[i] = clip01(v)
	}
}
