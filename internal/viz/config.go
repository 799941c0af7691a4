// Package viz renders what the convolutional layers of an image classifier
// do to one input: for two successive layers it draws the input, a kernel
// slice, the feature map, the rectified map and the pooled map side by side
// on a figure.
package viz

import (
	"errors"

	"gonum.org/v1/plot/vg"
)

var (
	// ErrRank is returned for tensors that are not [C,H,W] or [1,C,H,W].
	ErrRank = errors.New("viz: unsupported tensor rank")

	// ErrChannels is returned for display arrays with other than 1 or 3 channels.
	ErrChannels = errors.New("viz: unsupported channel count")

	// ErrIndex is returned when a feature map or kernel index is out of range.
	ErrIndex = errors.New("viz: index out of range")

	// ErrColormap is returned for colormaps with fewer than two colors.
	ErrColormap = errors.New("viz: colormap needs at least two colors")

	// ErrFormat is returned for unsupported figure formats.
	ErrFormat = errors.New("viz: unsupported figure format")
)

// GrayMode selects how single-channel arrays are prepared for display.
type GrayMode int

const (
	// GrayPassthrough clips single-channel arrays to [0, 1] without
	// de-normalizing them.
	GrayPassthrough GrayMode = iota

	// GrayBroadcast stretches a single channel to three and de-normalizes
	// each with its own statistics, which tints gray images.
	GrayBroadcast
)

func (m GrayMode) String() string {
	switch m {
	case GrayPassthrough:
		return "passthrough"
	case GrayBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// Suptitle places a figure title. X is the horizontal center and Y the top
// edge, both as fractions of the figure side.
type Suptitle struct {
	X, Y float64
	Size vg.Length
}

// Config controls layout, fonts and display of the visualizer.
type Config struct {
	Layout LayoutParams

	// FigureSize is the side of the square figure area. Panels that run
	// past it widen the canvas.
	FigureSize vg.Length

	GlyphFontSize vg.Length
	LabelFontSize vg.Length
	TitleFontSize vg.Length

	FirstSuptitle  Suptitle
	SecondSuptitle Suptitle

	// Normalizer inverts the input normalization for display.
	Normalizer Normalizer

	// Colormap, when set, colors single-channel arrays.
	Colormap *Colormap

	// Layers names the two convolutions of the model variant.
	Layers [2]string

	// Titles overrides the panel titles. By default the model variant uses
	// EnglishTitles and the direct variant FrenchTitles.
	Titles *Titles

	// Show receives every finished figure.
	Show func(*Figure) error
}

// DefaultConfig returns the configuration the figures were designed with:
// 15 inch figures, 40pt glyphs and 25pt axis labels.
func DefaultConfig() Config {
	return Config{
		Layout:         DefaultLayoutParams(),
		FigureSize:     15 * vg.Inch,
		GlyphFontSize:  40,
		LabelFontSize:  25,
		TitleFontSize:  12,
		FirstSuptitle:  Suptitle{X: 0.5, Y: 0.5, Size: 55},
		SecondSuptitle: Suptitle{X: 0.37, Y: 0.3, Size: 45},
		Normalizer:     DefaultNormalizer(),
		Layers:         [2]string{"conv1", "conv2"},
	}
}
