// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package viz draws what the first two convolutions of a CNN do to an
// image: input, kernel, feature map, ReLU and max pooling, side by side.
//
// Example:
//
//	backend := cpu.New()
//	v := viz.New(backend, viz.DefaultConfig())
//	figs, err := v.PlotModel(ds, nn.NewLeNet(backend), 0, 4, 7)
//	if err != nil {
//	    return err
//	}
//	png, err := figs[0].Render("png")
package viz

import (
	"github.com/born-ml/convviz/internal/viz"
	"github.com/born-ml/convviz/tensor"
)

// Errors.
var (
	ErrRank     = viz.ErrRank
	ErrChannels = viz.ErrChannels
	ErrIndex    = viz.ErrIndex
	ErrColormap = viz.ErrColormap
	ErrFormat   = viz.ErrFormat
)

// Formats lists the formats Figure.Render accepts.
var Formats = viz.Formats

// Config controls figure geometry, fonts, display normalization and the
// convolutions a model is inspected at.
type Config = viz.Config

// DefaultConfig returns the default figure configuration.
func DefaultConfig() Config {
	return viz.DefaultConfig()
}

// Visualizer draws convolution stages onto figures.
type Visualizer[B tensor.Backend] = viz.Visualizer[B]

// New creates a visualizer computing on backend.
func New[B tensor.Backend](backend B, cfg Config) *Visualizer[B] {
	return viz.New(backend, cfg)
}

// Figure is a rendered-on-demand set of panels and labels.
type Figure = viz.Figure

// Panel is one image axes of a figure.
type Panel = viz.Panel

// Titles holds the panel titles and suptitles of both figures.
type Titles = viz.Titles

// EnglishTitles labels figures for convolutions with c1 and c2 output
// channels.
func EnglishTitles(c1, c2 int) Titles {
	return viz.EnglishTitles(c1, c2)
}

// FrenchTitles is the French variant of EnglishTitles.
func FrenchTitles(c1, c2 int) Titles {
	return viz.FrenchTitles(c1, c2)
}

// Normalizer maps normalized tensors back to displayable [0, 1] arrays.
type Normalizer = viz.Normalizer

// GrayMode selects how single-channel arrays are de-normalized.
type GrayMode = viz.GrayMode

// Gray modes.
const (
	GrayPassthrough = viz.GrayPassthrough
	GrayBroadcast   = viz.GrayBroadcast
)

// Colormap maps scalar arrays to colors.
type Colormap = viz.Colormap

// Built-in colormaps.
var (
	Viridis = viz.Viridis
	Grays   = viz.Grays
)

// NewColormap builds a colormap from two or more hex colors.
func NewColormap(hex ...string) (*Colormap, error) {
	return viz.NewColormap(hex...)
}

// LayerSource yields a convolution and its raw output for an input image.
type LayerSource[B tensor.Backend] = viz.LayerSource[B]

// Stage holds the tensors of one visualized convolution.
type Stage[B tensor.Backend] = viz.Stage[B]

// ModelLayer captures a named Conv2D of a Sequential model.
type ModelLayer[B tensor.Backend] = viz.ModelLayer[B]

// FreshConv applies a standalone Conv2D to a single-channel image.
type FreshConv[B tensor.Backend] = viz.FreshConv[B]

// Extract runs input through src and keeps output channel featureMap, the
// kernel weight[featureMap][prevFeatureMap], the rectified map and its
// pooled version.
func Extract[B tensor.Backend](
	src LayerSource[B],
	input, display *tensor.Tensor[float32, B],
	featureMap, prevFeatureMap int,
) (*Stage[B], error) {
	return viz.Extract(src, input, display, featureMap, prevFeatureMap)
}
