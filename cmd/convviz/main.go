// Command convviz draws the first two convolution stages of a LeNet-style
// network on an MNIST digit.
//
// Figures are shown in the browser: convviz serves them over HTTP until
// interrupted.
//
//	convviz -data ./data -weights lenet.safetensors -trial 3 -fm1 4 -fm2 7
//	convviz -direct -addr localhost:9090
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/born-ml/convviz/internal/backend/cpu"
	"github.com/born-ml/convviz/internal/dataset"
	"github.com/born-ml/convviz/internal/loader"
	"github.com/born-ml/convviz/internal/nn"
	"github.com/born-ml/convviz/internal/tensor"
	"github.com/born-ml/convviz/internal/viewer"
	"github.com/born-ml/convviz/internal/viz"
)

type options struct {
	dataDir string
	train   bool
	samples int
	weights string
	trial   int
	fm1     int
	fm2     int
	direct  bool
	gray    string
	cmap    string
	norm    string
	addr    string
	seed    int64
}

func main() {
	log.SetFlags(0)

	var o options
	flag.StringVar(&o.dataDir, "data", "", "directory with MNIST IDX files (empty: synthetic digits)")
	flag.BoolVar(&o.train, "train", false, "use the training split instead of the test split")
	flag.IntVar(&o.samples, "samples", 100, "max samples to load (0 = all)")
	flag.StringVar(&o.weights, "weights", "", "safetensors file with LeNet weights (empty: random init)")
	flag.IntVar(&o.trial, "trial", 0, "sample index")
	flag.IntVar(&o.fm1, "fm1", 0, "feature map of the first convolution")
	flag.IntVar(&o.fm2, "fm2", 0, "feature map of the second convolution")
	flag.BoolVar(&o.direct, "direct", false, "use freshly initialized convolutions instead of the model")
	flag.StringVar(&o.gray, "gray", "passthrough", "single-channel display: passthrough or broadcast")
	flag.StringVar(&o.cmap, "cmap", "gray", "colormap: gray, viridis or none")
	flag.StringVar(&o.norm, "norm", "mnist", "input normalization: mnist, imagenet or none")
	flag.StringVar(&o.addr, "addr", "localhost:8080", "address the figure viewer listens on")
	flag.Int64Var(&o.seed, "seed", 1, "seed for synthetic digits")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vcfg := viewer.DefaultConfig()
	vcfg.Addr = o.addr
	v := viewer.New(vcfg)

	if err := run(ctx, o, v); err != nil {
		log.Fatalf("convviz: %v", err)
	}
}

func run(ctx context.Context, o options, v *viewer.Viewer) error {
	backend := cpu.New()

	cfg := viz.DefaultConfig()
	if err := applyDisplay(&cfg, o); err != nil {
		return err
	}
	cfg.Show = func(f *viz.Figure) error {
		fmt.Printf("figure %d: %s\n", v.Len(), f.Title())
		return v.Show(f)
	}

	ds, err := loadDataset(o, backend)
	if err != nil {
		return err
	}
	fmt.Printf("dataset: %d samples\n", ds.Len())

	vis := viz.New(backend, cfg)

	if o.direct {
		input, _, err := ds.Sample(o.trial)
		if err != nil {
			return err
		}
		if _, err := vis.PlotImageConv(input); err != nil {
			return err
		}
	} else {
		model, err := loadModel(o.weights, backend)
		if err != nil {
			return err
		}
		if _, err := vis.PlotModel(ds, model, o.trial, o.fm1, o.fm2); err != nil {
			return err
		}
	}

	fmt.Printf("serving figures at http://%s (Ctrl-C to quit)\n", o.addr)
	return v.Serve(ctx)
}

func applyDisplay(cfg *viz.Config, o options) error {
	switch o.gray {
	case "passthrough":
		cfg.Normalizer.Gray = viz.GrayPassthrough
	case "broadcast":
		cfg.Normalizer.Gray = viz.GrayBroadcast
	default:
		return fmt.Errorf("unknown gray mode %q", o.gray)
	}

	switch o.cmap {
	case "gray":
		cfg.Colormap = viz.Grays
	case "viridis":
		cfg.Colormap = viz.Viridis
	case "none":
		cfg.Colormap = nil
	default:
		return fmt.Errorf("unknown colormap %q", o.cmap)
	}
	return nil
}

func normalization(name string) (dataset.Normalization, error) {
	switch name {
	case "mnist":
		return dataset.MNIST, nil
	case "imagenet":
		return dataset.ImageNet, nil
	case "none":
		return dataset.Identity, nil
	}
	return dataset.Normalization{}, fmt.Errorf("unknown normalization %q", name)
}

func loadDataset(o options, backend *cpu.CPUBackend) (*dataset.InMemory[*cpu.CPUBackend], error) {
	norm, err := normalization(o.norm)
	if err != nil {
		return nil, err
	}

	if o.dataDir == "" {
		n := max(o.samples, o.trial+1)
		fmt.Printf("no -data given, drawing %d synthetic digits\n", n)
		images, labels := dataset.Synthetic(n, rand.New(rand.NewSource(o.seed)))
		return dataset.NewInMemory(images, labels, norm, backend)
	}

	fmt.Printf("loading MNIST from %s\n", o.dataDir)
	ds, err := dataset.LoadMNIST(o.dataDir, o.train, o.samples, norm, backend)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (expected unpacked IDX files such as t10k-images-idx3-ubyte)", err)
		}
		return nil, err
	}
	return ds, nil
}

func loadModel(path string, backend *cpu.CPUBackend) (*nn.Sequential[*cpu.CPUBackend], error) {
	var model *nn.Sequential[*cpu.CPUBackend]
	if err := tensor.Maybe(func() { model = nn.NewLeNet(backend) }); err != nil {
		return nil, err
	}
	if path == "" {
		fmt.Println("no -weights given, using randomly initialized LeNet")
		return model, nil
	}

	state, meta, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := model.LoadStateDict(state); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("loaded %d tensors from %s", len(state), path)
	if arch := meta["architecture"]; arch != "" {
		fmt.Printf(" (%s)", arch)
	}
	fmt.Println()
	return model, nil
}
