package cpu

import (
	"fmt"

	"github.com/born-ml/convviz/internal/parallel"
	"github.com/born-ml/convviz/internal/tensor"
)

// Conv2D performs 2D convolution using im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Algorithm: Im2col
//  1. Transform input patches into columns (im2col)
//  2. Multiply the kernel matrix [C_out, C_in*K_h*K_w] by the columns (GEMM)
//  3. Rearrange output to [N, C_out, H_out, W_out]
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if input.DType() != kernel.DType() {
		panic(fmt.Sprintf("conv2d: dtype mismatch %s vs %s", input.DType(), kernel.DType()))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	g := convGeom{
		N:       inputShape[0],
		CIn:     inputShape[1],
		H:       inputShape[2],
		W:       inputShape[3],
		COut:    kernelShape[0],
		KH:      kernelShape[2],
		KW:      kernelShape[3],
		stride:  stride,
		padding: padding,
	}

	if g.CIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", g.CIn, kernelShape[1]))
	}

	// out = (in + 2*padding - k) / stride + 1
	g.HOut = (g.H+2*padding-g.KH)/stride + 1
	g.WOut = (g.W+2*padding-g.KW)/stride + 1

	if g.HOut <= 0 || g.WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", g.HOut, g.WOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{g.N, g.COut, g.HOut, g.WOut}, input.DType())
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		conv2d(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g, cpu.par)
	case tensor.Float64:
		conv2d(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), g, cpu.par)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

type convGeom struct {
	N, CIn, H, W    int
	COut, KH, KW    int
	HOut, WOut      int
	stride, padding int
}

func conv2d[T float](outputData, inputData, kernelData []T, g convGeom, par parallel.Config) {
	// colBuf: [N * H_out * W_out, C_in * K_h * K_w]
	colWidth := g.CIn * g.KH * g.KW
	colHeight := g.N * g.HOut * g.WOut
	colBuf := make([]T, colHeight*colWidth)

	parallel.For(colHeight, par, func(lo, hi int) {
		im2col(colBuf, inputData, g, lo, hi)
	})

	// kernelData is already [C_out, C_in*K_h*K_w] in row-major order.
	// tmp[i, j] = sum_k kernel[i, k] * colBuf[j, k]
	tmp := make([]T, g.COut*colHeight)
	gemm(tmp, kernelData, colBuf, g.COut, colWidth, colHeight, true)

	// [C_out, N*H_out*W_out] -> [N, C_out, H_out, W_out]
	plane := g.HOut * g.WOut
	for n := 0; n < g.N; n++ {
		for c := 0; c < g.COut; c++ {
			src := tmp[c*colHeight+n*plane : c*colHeight+(n+1)*plane]
			dst := outputData[(n*g.COut+c)*plane : (n*g.COut+c+1)*plane]
			copy(dst, src)
		}
	}
}

// im2col fills rows [lo, hi) of the column matrix. Row r holds the
// flattened input patch under output position r of [N, H_out, W_out];
// out-of-bounds positions are zero padding.
func im2col[T float](colBuf, inputData []T, g convGeom, lo, hi int) {
	colWidth := g.CIn * g.KH * g.KW

	for row := lo; row < hi; row++ {
		n := row / (g.HOut * g.WOut)
		outH := row / g.WOut % g.HOut
		outW := row % g.WOut

		hStart := outH*g.stride - g.padding
		wStart := outW*g.stride - g.padding
		bufIdx := row * colWidth

		for c := 0; c < g.CIn; c++ {
			for kh := 0; kh < g.KH; kh++ {
				h := hStart + kh
				for kw := 0; kw < g.KW; kw++ {
					w := wStart + kw
					if h >= 0 && h < g.H && w >= 0 && w < g.W {
						colBuf[bufIdx] = inputData[((n*g.CIn+c)*g.H+h)*g.W+w]
					} else {
						colBuf[bufIdx] = 0
					}
					bufIdx++
				}
			}
		}
	}
}
