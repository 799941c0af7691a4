package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/convviz/internal/parallel"
	"github.com/born-ml/convviz/internal/tensor"
)

// MaxPool2D performs 2D max pooling.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
// Where:
//
//	out_height = (height - kernelSize) / stride + 1
//	out_width = (width - kernelSize) / stride + 1
//
// Trailing rows and columns that do not fill a window are dropped.
//
// Example (2x2 pool, stride=2):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}

	N, C, H, W := inputShape[0], inputShape[1], inputShape[2], inputShape[3]

	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	if kernelSize > H || kernelSize > W {
		panic(fmt.Sprintf("maxpool2d: kernel size %d too large for input %dx%d", kernelSize, H, W))
	}

	HOut := (H-kernelSize)/stride + 1
	WOut := (W-kernelSize)/stride + 1

	output, err := tensor.NewRaw(tensor.Shape{N, C, HOut, WOut}, input.DType())
	if err != nil {
		panic(fmt.Sprintf("maxpool2d: failed to create output: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		out, in := output.AsFloat32(), input.AsFloat32()
		parallel.For(N*C, cpu.par, func(lo, hi int) {
			maxpool2d(out, in, lo, hi, H, W, HOut, WOut, kernelSize, stride)
		})
	case tensor.Float64:
		out, in := output.AsFloat64(), input.AsFloat64()
		parallel.For(N*C, cpu.par, func(lo, hi int) {
			maxpool2d(out, in, lo, hi, H, W, HOut, WOut, kernelSize, stride)
		})
	default:
		panic(fmt.Sprintf("maxpool2d: unsupported dtype %v", input.DType()))
	}

	return output
}

// maxpool2d pools channel planes [lo, hi).
func maxpool2d[T float](outputData, inputData []T, lo, hi, H, W, HOut, WOut, kernelSize, stride int) {
	for p := lo; p < hi; p++ {
		// Pre-slice the channel plane.
		channelData := inputData[p*H*W : (p+1)*H*W]

		for outH := 0; outH < HOut; outH++ {
			hStart := outH * stride

			for outW := 0; outW < WOut; outW++ {
				wStart := outW * stride
				maxVal := T(math.Inf(-1))

				for kh := 0; kh < kernelSize; kh++ {
					rowData := channelData[(hStart+kh)*W : (hStart+kh+1)*W]
					for kw := 0; kw < kernelSize; kw++ {
						if val := rowData[wStart+kw]; val > maxVal {
							maxVal = val
						}
					}
				}

				outputData[(p*HOut+outH)*WOut+outW] = maxVal
			}
		}
	}
}
