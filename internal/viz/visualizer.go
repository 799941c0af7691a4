package viz

import (
	"fmt"
	"image"

	"github.com/born-ml/convviz/internal/tensor"
)

// Visualizer draws convolution stages onto figures.
type Visualizer[B tensor.Backend] struct {
	cfg     Config
	backend B
}

// New creates a visualizer computing on backend.
func New[B tensor.Backend](backend B, cfg Config) *Visualizer[B] {
	return &Visualizer[B]{cfg: cfg, backend: backend}
}

// Config returns the visualizer configuration.
func (v *Visualizer[B]) Config() Config {
	return v.cfg
}

// plotLayer extracts one stage and draws it on a new figure. The second
// layer of a model also gets the flattening panel.
func (v *Visualizer[B]) plotLayer(
	src LayerSource[B],
	input, display *tensor.Tensor[float32, B],
	featureMap, prevFeatureMap int,
	titles [numPanels]string,
	flatten bool,
) (*Figure, *Stage[B], error) {
	st, err := Extract(src, input, display, featureMap, prevFeatureMap)
	if err != nil {
		return nil, nil, err
	}

	stages := [numPanels]*tensor.Tensor[float32, B]{st.Input, st.Kernel, st.FeatureMap, st.Rectified, st.Pooled}
	var arrays [numPanels]*Array
	for i, t := range stages {
		if arrays[i], err = ToDisplay(v.cfg.Normalizer, t); err != nil {
			return nil, nil, fmt.Errorf("panel %q: %w", titles[i], err)
		}
	}

	layout := ComputeLayout(v.cfg.Layout,
		stages[PanelInput].Shape().Last(),
		stages[PanelKernel].Shape().Last(),
		stages[PanelFeature].Shape().Last(),
		stages[PanelPooled].Shape().Last(),
		flatten,
	)

	fig := NewFigure(v.cfg.FigureSize)
	fig.TitleFontSize = v.cfg.TitleFontSize
	fig.LabelFontSize = v.cfg.LabelFontSize

	for _, g := range layout.Glyphs {
		fig.Text(g.X, g.Y, g.Text, v.cfg.GlyphFontSize)
	}

	if flatten {
		pooled := arrays[PanelPooled]
		flat, err := pooled.Reshape(pooled.H*pooled.W, 1, pooled.C)
		if err != nil {
			return nil, nil, err
		}
		fig.Text(layout.FlattenGlyph.X, layout.FlattenGlyph.Y, layout.FlattenGlyph.Text, v.cfg.GlyphFontSize)
		fig.AddPanel(Panel{
			Rect:   *layout.Flatten,
			Image:  v.image(flat),
			Title:  "Flattening x1",
			XLabel: "1",
			YLabel: FlattenLabel(pooled.H, pooled.W, st.Conv.OutChannels()),
		})
	}

	for i, t := range stages {
		shape := t.Shape()
		fig.AddPanel(Panel{
			Rect:   layout.Panels[i],
			Image:  v.image(arrays[i]),
			Title:  titles[i],
			XLabel: fmt.Sprint(shape[len(shape)-2]),
			YLabel: fmt.Sprint(shape[len(shape)-1]),
		})
	}

	return fig, st, nil
}

func (v *Visualizer[B]) image(a *Array) image.Image {
	if v.cfg.Colormap != nil {
		return v.cfg.Colormap.Apply(a)
	}
	return a
}

// FlattenLabel describes the flattened pooled output, e.g. "4x4x50".
func FlattenLabel(h, w, channels int) string {
	return fmt.Sprintf("%dx%dx%d", h, w, channels)
}

func (v *Visualizer[B]) show(f *Figure) error {
	if v.cfg.Show == nil {
		return nil
	}
	if err := v.cfg.Show(f); err != nil {
		return fmt.Errorf("show %q: %w", f.Title(), err)
	}
	return nil
}
