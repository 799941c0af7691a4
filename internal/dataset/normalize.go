package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Normalization holds per-channel statistics. Forward maps x to
// (x - Mean[c]) / Std[c]; its inverse is what the visualizer applies
// before display.
type Normalization struct {
	Mean []float64
	Std  []float64
}

// Common normalizations.
var (
	// ImageNet statistics, the constants the display inverse assumes.
	ImageNet = Normalization{
		Mean: []float64{0.485, 0.456, 0.406},
		Std:  []float64{0.229, 0.224, 0.225},
	}

	// MNIST statistics for single-channel digits.
	MNIST = Normalization{
		Mean: []float64{0.1307},
		Std:  []float64{0.3081},
	}

	// Identity leaves values unchanged.
	Identity = Normalization{}
)

// Normalize applies the forward transform in place to a channel-first
// image of the given channel count. Channel c uses statistics index
// c mod len(Mean), so single-entry statistics cover any channel count.
func (n Normalization) Normalize(chw []float64, channels int) error {
	if len(n.Mean) == 0 {
		return nil
	}
	if len(n.Mean) != len(n.Std) {
		return fmt.Errorf("normalization: %d means but %d stds", len(n.Mean), len(n.Std))
	}
	if channels <= 0 || len(chw)%channels != 0 {
		return fmt.Errorf("normalization: %d values do not split into %d channels", len(chw), channels)
	}

	plane := len(chw) / channels
	for c := 0; c < channels; c++ {
		k := c % len(n.Mean)
		if n.Std[k] == 0 {
			return fmt.Errorf("normalization: zero std for channel %d", c)
		}
		p := chw[c*plane : (c+1)*plane]
		floats.AddConst(-n.Mean[k], p)
		floats.Scale(1/n.Std[k], p)
	}
	return nil
}
