package viz

import (
	"fmt"
	"image"
	"image/color"
)

// Array is a channel-last image with values in [0, 1], ready for display.
// Pix holds H*W*C values row-major, channels innermost.
//
// Array implements image.Image: one channel is drawn gray, three as RGB.
type Array struct {
	H, W, C int
	Pix     []float64
}

// NewArray allocates a zero H x W x C array.
func NewArray(h, w, c int) *Array {
	return &Array{H: h, W: w, C: c, Pix: make([]float64, h*w*c)}
}

// At3 returns the value at row y, column x, channel c.
func (a *Array) At3(y, x, c int) float64 {
	return a.Pix[(y*a.W+x)*a.C+c]
}

// Reshape returns an array sharing Pix with a new shape. The element
// order is unchanged, so this is a row-major reshape.
func (a *Array) Reshape(h, w, c int) (*Array, error) {
	if h*w*c != len(a.Pix) {
		return nil, fmt.Errorf("viz: cannot reshape %dx%dx%d to %dx%dx%d", a.H, a.W, a.C, h, w, c)
	}
	return &Array{H: h, W: w, C: c, Pix: a.Pix}, nil
}

// ColorModel implements image.Image.
func (a *Array) ColorModel() color.Model {
	if a.C == 1 {
		return color.GrayModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (a *Array) Bounds() image.Rectangle {
	return image.Rect(0, 0, a.W, a.H)
}

// At implements image.Image.
func (a *Array) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(a.Bounds())) {
		return color.Gray{}
	}
	if a.C == 1 {
		return color.Gray{Y: to8(a.At3(y, x, 0))}
	}
	return color.RGBA{
		R: to8(a.At3(y, x, 0)),
		G: to8(a.At3(y, x, 1)),
		B: to8(a.At3(y, x, 2)),
		A: 0xff,
	}
}

func to8(v float64) uint8 {
	return uint8(clip01(v)*255 + 0.5)
}

func clip01(v float64) float64 {
	return min(max(v, 0), 1)
}
