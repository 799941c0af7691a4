package viz

import (
	"fmt"

	"github.com/born-ml/convviz/internal/dataset"
	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/internal/tensor"
)

// PlotModel visualizes the first two convolutions of a trained model on
// sample trial of ds. The first figure shows output channel fm1 of the
// first convolution; the second shows channel fm2 of the second, whose
// kernel slice is taken at input channel fm1 and whose first panel is the
// pooled map of the first figure.
//
// Each figure is passed to Config.Show as soon as it is complete. When the
// second convolution fails, the first figure is returned with the error.
func (v *Visualizer[B]) PlotModel(
	ds dataset.Dataset[B],
	model *nn.Sequential[B],
	trial, fm1, fm2 int,
) ([]*Figure, error) {
	sample, _, err := ds.Sample(trial)
	if err != nil {
		return nil, err
	}

	first, err := model.Conv(v.cfg.Layers[0])
	if err != nil {
		return nil, err
	}
	second, err := model.Conv(v.cfg.Layers[1])
	if err != nil {
		return nil, err
	}

	titles := v.titles(EnglishTitles(first.OutChannels(), second.OutChannels()))

	fig1, st1, err := v.plotLayer(ModelLayer[B]{Model: model, Name: v.cfg.Layers[0]},
		sample, sample, fm1, 0, titles.First, false)
	if err != nil {
		return nil, fmt.Errorf("first convolution: %w", err)
	}
	fig1.Suptitle(titles.FirstSuptitle, v.cfg.FirstSuptitle)
	if err := v.show(fig1); err != nil {
		return []*Figure{fig1}, err
	}

	// The model always sees the dataset sample; only the displayed input
	// changes.
	fig2, _, err := v.plotLayer(ModelLayer[B]{Model: model, Name: v.cfg.Layers[1]},
		sample, st1.Pooled, fm2, fm1, titles.Second, true)
	if err != nil {
		return []*Figure{fig1}, fmt.Errorf("second convolution: %w", err)
	}
	fig2.Suptitle(titles.SecondSuptitle, v.cfg.SecondSuptitle)

	return []*Figure{fig1, fig2}, v.show(fig2)
}

// PlotImageConv visualizes two freshly initialized convolutions,
// Conv2D(1->20, 5x5) and Conv2D(1->50, 5x5), on a single-channel image.
// The second convolution runs on the pooled output of the first. Both
// figures show output channel 0 and kernel weight[0][0]. Figures are shown
// as in PlotModel.
func (v *Visualizer[B]) PlotImageConv(input *tensor.Tensor[float32, B]) ([]*Figure, error) {
	var conv1, conv2 FreshConv[B]
	err := tensor.Maybe(func() {
		conv1.Conv = nn.NewConv2D(1, 20, 5, 5, 1, 0, true, v.backend)
		conv2.Conv = nn.NewConv2D(1, 50, 5, 5, 1, 0, true, v.backend)
	})
	if err != nil {
		return nil, err
	}

	titles := v.titles(FrenchTitles(conv1.Conv.OutChannels(), conv2.Conv.OutChannels()))

	fig1, st1, err := v.plotLayer(conv1, input, input, 0, 0, titles.First, false)
	if err != nil {
		return nil, fmt.Errorf("first convolution: %w", err)
	}
	fig1.Suptitle(titles.FirstSuptitle, v.cfg.FirstSuptitle)
	if err := v.show(fig1); err != nil {
		return []*Figure{fig1}, err
	}

	fig2, _, err := v.plotLayer(conv2, st1.Pooled, st1.Pooled, 0, 0, titles.Second, true)
	if err != nil {
		return []*Figure{fig1}, fmt.Errorf("second convolution: %w", err)
	}
	fig2.Suptitle(titles.SecondSuptitle, v.cfg.SecondSuptitle)

	return []*Figure{fig1, fig2}, v.show(fig2)
}

func (v *Visualizer[B]) titles(def Titles) Titles {
	if v.cfg.Titles != nil {
		return *v.cfg.Titles
	}
	return def
}
