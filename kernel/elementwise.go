package kernel

import (
	"math"

	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/dims"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/tensor"
)

func init() {
	register(ir.OpAdd, EvalFunc(evalBinary(func(a, b float32) float32 { return a + b })))
	register(ir.OpSub, EvalFunc(evalBinary(func(a, b float32) float32 { return a - b })))
	register(ir.OpMul, EvalFunc(evalBinary(func(a, b float32) float32 { return a * b })))
	register(ir.OpDiv, EvalFunc(evalBinary(func(a, b float32) float32 { return a / b })))
	register(ir.OpPow, EvalFunc(evalBinary(func(a, b float32) float32 { return float32(math.Pow(float64(a), float64(b))) })))

	register(ir.OpReLU, EvalFunc(evalUnary(func(x float32) float32 { return max32(x, 0) })))
	register(ir.OpSigmoid, EvalFunc(evalUnary(func(x float32) float32 { return float32(1 / (1 + math.Exp(float64(-x)))) })))
	register(ir.OpGelu, EvalFunc(evalUnary(gelu)))
	register(ir.OpErf, EvalFunc(evalUnary(func(x float32) float32 { return float32(math.Erf(float64(x))) })))
	register(ir.OpSqrt, EvalFunc(evalUnary(func(x float32) float32 { return float32(math.Sqrt(float64(x))) })))
	register(ir.OpExp, EvalFunc(evalUnary(func(x float32) float32 { return float32(math.Exp(float64(x))) })))
	register(ir.OpRound, EvalFunc(evalUnary(func(x float32) float32 { return float32(math.RoundToEven(float64(x))) })))
	register(ir.OpLeakyReLU, EvalFunc(evalLeakyReLU))
	register(ir.OpHardSigmoid, EvalFunc(evalHardSigmoid))
	register(ir.OpClip, EvalFunc(evalClip))
	register(ir.OpCast, EvalFunc(evalCast))
	register(ir.OpSoftmax, EvalFunc(evalSoftmax))
	register(ir.OpBatchNormalization, EvalFunc(evalBatchNormalization))
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}

	return b
}

func gelu(x float32) float32 {
	const invSqrt2 = 0.7071067811865476
	return x * 0.5 * float32(1+math.Erf(float64(x)*invSqrt2))
}

// broadcastIterate walks every linear index of outDims and calls fn with
// the corresponding flat offset into each of the operand stride tables.
func broadcastIterate(outDims dims.Dimensions, operandStrides [][]int, fn func(outIdx int, operandOffsets []int)) {
	total := outDims.TotalElems()
	rank := len(outDims)
	coord := make([]int, rank)
	offsets := make([]int, len(operandStrides))

	for outIdx := 0; outIdx < total; outIdx++ {
		for j := range operandStrides {
			off := 0
			for d := 0; d < rank; d++ {
				off += coord[d] * operandStrides[j][d]
			}

			offsets[j] = off
		}

		fn(outIdx, offsets)

		for d := rank - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < outDims[d] {
				break
			}

			coord[d] = 0
		}
	}
}

func evalBinary(op func(a, b float32) float32) func([]*tensor.Tensor, []*tensor.Tensor, *ir.Op, *concurrent.Scope) error {
	return func(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
		a, b, out := inputs[ir.BinaryIn0], inputs[ir.BinaryIn1], outputs[ir.BinaryOut]

		outDims := out.Dims()

		aStrides, err := a.StridesForBroadcasting(outDims)
		if err != nil {
			return kernelErrorf(irop.Kind, "%w", err)
		}

		bStrides, err := b.StridesForBroadcasting(outDims)
		if err != nil {
			return kernelErrorf(irop.Kind, "%w", err)
		}

		af, bf, of := a.Float32(), b.Float32(), out.Float32()

		broadcastIterate(outDims, [][]int{aStrides, bStrides}, func(outIdx int, offs []int) {
			of[outIdx] = op(af[offs[0]], bf[offs[1]])
		})

		return nil
	}
}

func evalUnary(op func(x float32) float32) func([]*tensor.Tensor, []*tensor.Tensor, *ir.Op, *concurrent.Scope) error {
	return func(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
		in, out := inputs[ir.UnaryIn].Float32(), outputs[ir.UnaryOut].Float32()
		if len(in) != len(out) {
			return kernelErrorf(irop.Kind, "input/output element count mismatch: %d vs %d", len(in), len(out))
		}

		for i, v := range in {
			out[i] = op(v)
		}

		return nil
	}
}

func evalLeakyReLU(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	alpha := irop.LeakyReLU.Alpha

	in, out := inputs[ir.UnaryIn].Float32(), outputs[ir.UnaryOut].Float32()
	for i, v := range in {
		if v >= 0 {
			out[i] = v
		} else {
			out[i] = alpha * v
		}
	}

	return nil
}

func evalHardSigmoid(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	alpha, beta := irop.HardSigmoid.Alpha, irop.HardSigmoid.Beta

	in, out := inputs[ir.UnaryIn].Float32(), outputs[ir.UnaryOut].Float32()
	for i, v := range in {
		y := alpha*v + beta
		switch {
		case y < 0:
			y = 0
		case y > 1:
			y = 1
		}

		out[i] = y
	}

	return nil
}

func evalClip(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn].Float32(), outputs[ir.UnaryOut].Float32()

	lo, hi := float32(math.Inf(-1)), float32(math.Inf(1))
	if len(inputs) > 1 && inputs[1] != nil {
		lo = inputs[1].Float32()[0]
	}

	if len(inputs) > 2 && inputs[2] != nil {
		hi = inputs[2].Float32()[0]
	}

	for i, v := range in {
		if v < lo {
			v = lo
		}

		if v > hi {
			v = hi
		}

		out[i] = v
	}

	return nil
}

func evalCast(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]

	switch {
	case in.ElemType() == tensor.F32 && out.ElemType() == tensor.I64:
		src, dst := in.Float32(), out.Int64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	case in.ElemType() == tensor.I64 && out.ElemType() == tensor.F32:
		src, dst := in.Int64(), out.Float32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case in.ElemType() == tensor.F32 && out.ElemType() == tensor.I32:
		src, dst := in.Float32(), out.Int32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case in.ElemType() == tensor.I32 && out.ElemType() == tensor.F32:
		src, dst := in.Int32(), out.Float32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case in.ElemType() == out.ElemType():
		copy(out.Bytes(), in.Bytes())
	default:
		return kernelErrorf(irop.Kind, "unsupported cast from %s to %s", in.ElemType(), out.ElemType())
	}

	return nil
}

func evalSoftmax(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	in, out := inputs[ir.UnaryIn], outputs[ir.UnaryOut]
	d := in.Dims()

	axis := int(irop.Softmax.Axis)
	if axis < 0 {
		axis += len(d)
	}

	outer, axisLen, inner := 1, d[axis], 1
	for i := 0; i < axis; i++ {
		outer *= d[i]
	}

	for i := axis + 1; i < len(d); i++ {
		inner *= d[i]
	}

	src, dst := in.Float32(), out.Float32()

	for o := 0; o < outer; o++ {
		for n := 0; n < inner; n++ {
			base := o*axisLen*inner + n

			maxV := src[base]
			for a := 1; a < axisLen; a++ {
				if v := src[base+a*inner]; v > maxV {
					maxV = v
				}
			}

			var sum float32
			for a := 0; a < axisLen; a++ {
				e := float32(math.Exp(float64(src[base+a*inner] - maxV)))
				dst[base+a*inner] = e
				sum += e
			}

			for a := 0; a < axisLen; a++ {
				dst[base+a*inner] /= sum
			}
		}
	}

	return nil
}

func evalBatchNormalization(inputs, outputs []*tensor.Tensor, irop *ir.Op, scope *concurrent.Scope) error {
	x := inputs[ir.BatchNormX]
	scale := inputs[ir.BatchNormScale].Float32()
	bias := inputs[ir.BatchNormBias].Float32()
	mean := inputs[ir.BatchNormMean].Float32()
	variance := inputs[ir.BatchNormVar].Float32()
	out := outputs[ir.BatchNormOut].Float32()

	d := x.Dims()
	if len(d) < 2 {
		return kernelErrorf(irop.Kind, "expected rank >= 2 input, got %v", d)
	}

	channels := d[1]
	inner := 1
	for i := 2; i < len(d); i++ {
		inner *= d[i]
	}

	eps := irop.BatchNormalization.Epsilon

	src := x.Float32()
	for n := 0; n < d[0]; n++ {
		for c := 0; c < channels; c++ {
			invStd := float32(1 / math.Sqrt(float64(variance[c]+eps)))
			base := (n*channels+c)*inner

			for i := 0; i < inner; i++ {
				out[base+i] = (src[base+i]-mean[c])*invStd*scale[c] + bias[c]
			}
		}
	}

	return nil
}
