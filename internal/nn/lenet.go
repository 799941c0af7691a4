package nn

import "github.com/born-ml/convviz/internal/tensor"

// NewLeNet builds the LeNet-style MNIST classifier the visualizer is
// demonstrated on:
//
//	conv1  Conv2D(1->20, 5x5)  [1,1,28,28] -> [1,20,24,24]
//	relu1, pool1 (2x2)         -> [1,20,12,12]
//	conv2  Conv2D(20->50, 5x5) -> [1,50,8,8]
//	relu2, pool2 (2x2)         -> [1,50,4,4]
//	flatten                    -> [1,800]
//	fc1 Linear(800->500), relu3, fc2 Linear(500->10)
func NewLeNet[B tensor.Backend](backend B) *Sequential[B] {
	return NewSequential[B]().
		Add("conv1", NewConv2D(1, 20, 5, 5, 1, 0, true, backend)).
		Add("relu1", NewReLU[B]()).
		Add("pool1", NewMaxPool2D(2, 2, backend)).
		Add("conv2", NewConv2D(20, 50, 5, 5, 1, 0, true, backend)).
		Add("relu2", NewReLU[B]()).
		Add("pool2", NewMaxPool2D(2, 2, backend)).
		Add("flatten", NewFlatten[B]()).
		Add("fc1", NewLinear(800, 500, backend)).
		Add("relu3", NewReLU[B]()).
		Add("fc2", NewLinear(500, 10, backend))
}
