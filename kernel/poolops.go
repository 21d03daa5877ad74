package kernel

import (
	"math"

	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpMaxPool, EvalFunc(evalMaxPool))
	register(ir.OpGlobalAveragePool, EvalFunc(evalGlobalAveragePool))
}

func evalMaxPool(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	x := inputs[ir.UnaryIn]
	out := outputs[ir.UnaryOut]

	xd, od := x.Dims(), out.Dims()
	n, c, ih, iw := xd[0], xd[1], xd[2], xd[3]
	oh, ow := od[2], od[3]

	attrs := irop.MaxPool
	kh, kw := attrs.KernelShape[0], attrs.KernelShape[1]
	strideH, strideW := attrs.Strides[0], attrs.Strides[1]

	xf, of := x.Float32(), out.Float32()

	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			plane := xf[(b*c+ch)*ih*iw : (b*c+ch+1)*ih*iw]
			outPlane := of[(b*c+ch)*oh*ow : (b*c+ch+1)*oh*ow]

			for oy := 0; oy < oh; oy++ {
				for ox := 0; ox < ow; ox++ {
					maxV := float32(math.Inf(-1))

					for ky := 0; ky < kh; ky++ {
						srcY := oy*strideH + ky
						if srcY >= ih {
							continue
						}

						for kx := 0; kx < kw; kx++ {
							srcX := ox*strideW + kx
							if srcX >= iw {
								continue
							}

							if v := plane[srcY*iw+srcX]; v > maxV {
								maxV = v
							}
						}
					}

					outPlane[oy*ow+ox] = maxV
				}
			}
		}
	}

	return nil
}

func evalGlobalAveragePool(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	x := inputs[ir.UnaryIn]
	out := outputs[ir.UnaryOut]

	xd := x.Dims()
	n, c, ih, iw := xd[0], xd[1], xd[2], xd[3]

	xf, of := x.Float32(), out.Float32()
	spatial := ih * iw

	for b := 0; b < n; b++ {
		for ch := 0; ch < c; ch++ {
			plane := xf[(b*c+ch)*spatial : (b*c+ch+1)*spatial]

			var sum float32
			for _, v := range plane {
				sum += v
			}

			of[b*c+ch] = sum / float32(spatial)
		}
	}

	return nil
}
