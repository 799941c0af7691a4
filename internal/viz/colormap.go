package viz

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// Colormap maps scalars in [0, 1] to colors by blending anchor colors in
// HCL space.
type Colormap struct {
	anchors []colorful.Color
}

// Viridis approximates the perceptually uniform viridis map.
var Viridis = MustColormap("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")

// Grays maps 0 to black and 1 to white.
var Grays = MustColormap("#000000", "#ffffff")

// NewColormap builds a colormap from at least two hex colors.
func NewColormap(hex ...string) (*Colormap, error) {
	if len(hex) < 2 {
		return nil, ErrColormap
	}
	anchors := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, err
		}
		anchors[i] = c
	}
	return &Colormap{anchors: anchors}, nil
}

// MustColormap is like NewColormap but panics on error.
func MustColormap(hex ...string) *Colormap {
	m, err := NewColormap(hex...)
	if err != nil {
		panic(err)
	}
	return m
}

// At returns the color for v, clamped to [0, 1].
func (m *Colormap) At(v float64) color.Color {
	v = clip01(v)
	segments := len(m.anchors) - 1
	pos := v * float64(segments)
	i := min(int(pos), segments-1)
	return m.anchors[i].BlendHcl(m.anchors[i+1], pos-float64(i)).Clamped()
}

// Apply colors a single-channel array. Values are stretched over the
// range of a as given; a constant array maps to the lowest color. Arrays
// from ToDisplay are already clipped to [0, 1], so with GrayPassthrough
// every negative input value shares the lowest color. Arrays with more
// channels are returned unchanged.
func (m *Colormap) Apply(a *Array) image.Image {
	if a.C != 1 || len(a.Pix) == 0 {
		return a
	}

	lo, hi := floats.Min(a.Pix), floats.Max(a.Pix)
	span := hi - lo

	img := image.NewRGBA(a.Bounds())
	for y := 0; y < a.H; y++ {
		for x := 0; x < a.W; x++ {
			v := 0.0
			if span > 0 {
				v = (a.At3(y, x, 0) - lo) / span
			}
			img.Set(x, y, m.At(v))
		}
	}
	return img
}
