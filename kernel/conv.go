package kernel

import (
	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/internal/xblas"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpConv2d, EvalFunc(evalConv2d))
}

// evalConv2d lowers a single Conv2d node to im2col + GEMM, one batch
// element at a time, parallelized across batch elements when a scope with
// more than one worker is available.
func evalConv2d(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	x := inputs[ir.Conv2dIn]
	w := inputs[ir.Conv2dWeight]

	var bias []float32
	if len(inputs) > ir.Conv2dBias && inputs[ir.Conv2dBias] != nil {
		bias = inputs[ir.Conv2dBias].Float32()
	}

	out := outputs[ir.Conv2dOut]

	xd, wd, od := x.Dims(), w.Dims(), out.Dims()
	n, cin, ih, iw := xd[0], xd[1], xd[2], xd[3]
	cout, kh, kw := wd[0], wd[2], wd[3]
	oh, ow := od[2], od[3]

	attrs := irop.Conv2d
	strideH, strideW := attrs.Strides[0], attrs.Strides[1]

	dilH, dilW := 1, 1
	if len(attrs.Dilations) == 2 {
		dilH, dilW = attrs.Dilations[0], attrs.Dilations[1]
	}

	padTop, padLeft := attrs.Padding[0], attrs.Padding[1]

	xf, wf, of := x.Float32(), w.Float32(), out.Float32()

	colRows := cin * kh * kw
	colCols := oh * ow

	runBatch := func(b int) {
		col := make([]float32, colRows*colCols)
		im2col(xf[b*cin*ih*iw:], cin, ih, iw, kh, kw, strideH, strideW, dilH, dilW, padTop, padLeft, oh, ow, col)

		dst := of[b*cout*oh*ow : (b+1)*cout*oh*ow]
		xblas.GemmF32(false, false, cout, colCols, colRows, 1, wf, col, 0, dst)

		if bias != nil {
			for c := 0; c < cout; c++ {
				row := dst[c*colCols : (c+1)*colCols]
				for i := range row {
					row[i] += bias[c]
				}
			}
		}
	}

	if scope == nil {
		for b := 0; b < n; b++ {
			runBatch(b)
		}

		return nil
	}

	for b := 0; b < n; b++ {
		b := b

		scope.Spawn(func() { runBatch(b) })
	}

	return nil
}

// im2col unrolls a single (cin, ih, iw) image into a (cin*kh*kw, oh*ow)
// column matrix so convolution reduces to one GEMM call.
func im2col(x []float32, cin, ih, iw, kh, kw, strideH, strideW, dilH, dilW, padTop, padLeft, oh, ow int, col []float32) {
	colCols := oh * ow

	row := 0
	for c := 0; c < cin; c++ {
		for ky := 0; ky < kh; ky++ {
			for kx := 0; kx < kw; kx++ {
				dst := col[row*colCols : (row+1)*colCols]
				row++

				idx := 0
				for oy := 0; oy < oh; oy++ {
					srcY := oy*strideH - padTop + ky*dilH
					for ox := 0; ox < ow; ox++ {
						srcX := ox*strideW - padLeft + kx*dilW

						if srcY < 0 || srcY >= ih || srcX < 0 || srcX >= iw {
							dst[idx] = 0
						} else {
							dst[idx] = x[c*ih*iw+srcY*iw+srcX]
						}

						idx++
					}
				}
			}
		}
	}
}
